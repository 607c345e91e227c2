package commands

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"gymctl/internal/session"

	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// login
	tokenFlag string

	// whoami
	verifyFlag bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save an admin token",
	Long: `Save the bearer token used for every API call.
The token is read from --token, or prompted for without echo.
Setting GYMCTL_TOKEN overrides the saved token for one invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := tokenFlag
		if token == "" {
			fmt.Print("Token: ")
			tokenBytes, err := term.ReadPassword(uintptr(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("error reading token: %w", err)
			}
			fmt.Println()
			token = string(tokenBytes)
		}

		if err := sess.Login(strings.TrimSpace(token)); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		color.Green("Token saved for %s", sess.ServerURL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved admin token",
	Long:  "Remove the saved token from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sess.Logout(); err != nil {
			return fmt.Errorf("error during logout: %w", err)
		}

		fmt.Println("Successfully logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long:  "Display the server and whether a token is available, optionally checking it against the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Server:     %s\n", sess.ServerURL)
		fmt.Printf("Token file: %s\n", sess.TokenFile())

		if !sess.LoggedIn() {
			color.Yellow("You are not logged in")
			return nil
		}

		source := "saved"
		if os.Getenv(session.TokenEnv) != "" {
			source = "environment"
		}
		fmt.Printf("Token:      %s\n", source)

		if !verifyFlag {
			return nil
		}

		if _, err := newClient().ListServices(cmd.Context()); err != nil {
			logger.Warn("token check failed", zap.Error(err))
			color.Red("The server rejected the request: %v", err)
			return nil
		}

		color.Green("The server accepted the token")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&tokenFlag, "token", "", "Bearer token (prompted when empty)")
	whoamiCmd.Flags().BoolVar(&verifyFlag, "verify", false, "Check the token with a request to the server")
}

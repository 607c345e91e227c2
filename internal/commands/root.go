package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"gymctl/internal/api"
	"gymctl/internal/config"
	"gymctl/internal/logging"
	"gymctl/internal/membership"
	"gymctl/internal/models"
	"gymctl/internal/session"
	"gymctl/internal/ui"
	"gymctl/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	globalConfig *config.Config
	logger       = zap.NewNop()
	sess         *session.Session

	// --config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "gymctl",
	Short: "gymctl - manage gym members from the terminal",
	Long: `gymctl is a command-line client for the gym management API.
It lists members, changes their membership status, records attendance,
registers new members and exports ID cards and detail sheets.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := config.GetGlobalConfigDir()
		if err != nil {
			return err
		}

		if configFile != "" {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("error loading config %s: %w", configFile, err)
			}
			globalConfig = cfg

			// the startup logger was built from the global config
			log, err := logging.New(cfg.Log.Level, cfg.LogFile(configDir))
			if err != nil {
				return err
			}
			logger = log
		}
		if globalConfig == nil {
			cfg, err := config.LoadGlobalConfig()
			if err != nil {
				return fmt.Errorf("error loading global config: %w", err)
			}
			globalConfig = cfg
		}

		s, err := session.Open(globalConfig.ServerURL, configDir, logger)
		if err != nil {
			return err
		}
		sess = s
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if sess != nil {
			return sess.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute(cfg *config.Config, log *zap.Logger) error {
	globalConfig = cfg
	if log != nil {
		logger = log
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error("command failed", zap.Error(err))
	}
	if logger != log {
		_ = logger.Sync()
	}
	return err
}

// newClient builds an API client bound to the current session
func newClient() *api.Client {
	return api.NewClient(globalConfig.ServerURL, sess,
		api.WithTimeout(globalConfig.Timeout),
		api.WithRateLimit(globalConfig.RateLimit, globalConfig.RateBurst),
		api.WithLogger(logger),
	)
}

func newController(client membership.MemberService) *membership.Controller {
	return membership.NewController(client,
		membership.WithPolicy(membership.Policy(globalConfig.Invalidation)),
		membership.WithRole(globalConfig.MemberRole),
		membership.WithLogger(logger),
	)
}

// requireLogin stops commands that need a token before they hit the network
func requireLogin() error {
	if err := sess.RequireToken(); err != nil {
		return fmt.Errorf("%w: run 'gymctl login' first", err)
	}
	return nil
}

// loadMembers refreshes the controller, reporting the list view's failure message
func loadMembers(ctx context.Context, ctrl *membership.Controller) error {
	if err := ctrl.Refresh(ctx); err != nil {
		logger.Error("failed to load members", zap.Error(err))
		return errors.New(ui.LoadFailedMessage)
	}
	return nil
}

// resolveMember finds a member by id, or by full name when ref is not an id
func resolveMember(ctrl *membership.Controller, ref string) (models.Member, error) {
	if m, err := ctrl.Find(ref); err == nil || util.IsUUID(ref) {
		return m, err
	}

	var matches []models.Member
	for _, m := range ctrl.Members() {
		if strings.EqualFold(strings.TrimSpace(m.FullName), strings.TrimSpace(ref)) {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 0:
		return models.Member{}, fmt.Errorf("%w: %s", models.ErrMemberNotFound, ref)
	case 1:
		return matches[0], nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return models.Member{}, fmt.Errorf("%d members are named %q, use an id: %s", len(matches), ref, strings.Join(ids, ", "))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.gymctl/config.yaml)")
}

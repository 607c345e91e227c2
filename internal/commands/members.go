package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gymctl/internal/api"
	"gymctl/internal/membership"
	"gymctl/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// members list
	searchFlag string
	statusFlag string

	// activate / freeze
	dateFlag  string
	daysFlag  string
	forceFlag bool

	// delete
	yesFlag bool

	// register
	registration models.Registration
)

var membersCmd = &cobra.Command{
	Use:     "members",
	Aliases: []string{"member", "m"},
	Short:   "Manage gym members",
	Long:    "List members, view their details and change their membership status",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	Long:  "List members, optionally filtered by a search term and a status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		ctrl := newController(newClient())
		if err := loadMembers(cmd.Context(), ctrl); err != nil {
			return err
		}

		members := ctrl.Filter(searchFlag, models.Status(statusFlag))
		if len(members) == 0 {
			fmt.Println("No members found.")
			return nil
		}

		fmt.Println(memberTable(members))
		fmt.Printf("%d members\n", len(members))
		return nil
	},
}

var membersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one member",
	Long:  "Fetch a member from the server and print every detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		member, err := newClient().GetMember(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printMember(os.Stdout, member)
		return nil
	},
}

// newActionCmd builds the command for one status-changing action
func newActionCmd(action models.Action, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}

			ctrl := newController(newClient())
			if err := loadMembers(cmd.Context(), ctrl); err != nil {
				return err
			}

			member, err := resolveMember(ctrl, args[0])
			if err != nil {
				return err
			}

			if !models.Allows(member.Status, action) {
				if !forceFlag {
					return fmt.Errorf("%s is not offered for %s members (use --force to send it anyway)", action.Label(), member.Status)
				}
				color.Yellow("Sending %s for a %s member.", action, member.Status)
			}

			result, err := ctrl.Apply(cmd.Context(), member.ID, membership.Command{
				Action:        action,
				EffectiveDate: dateFlag,
				FreezeDays:    daysFlag,
			})
			if err != nil {
				return err
			}

			status := "unknown"
			if result.Member != nil {
				status = string(result.Member.Status)
			}
			color.Green("%s is now %s", member.FullName, status)
			return nil
		},
	}
}

var membersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a member",
	Long:  "Permanently delete a member record on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		ctrl := newController(newClient())
		if err := loadMembers(cmd.Context(), ctrl); err != nil {
			return err
		}

		member, err := resolveMember(ctrl, args[0])
		if err != nil {
			return err
		}

		if !yesFlag {
			fmt.Printf("Delete %s (%s) permanently? [y/N]: ", member.FullName, member.ID)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := ctrl.Delete(cmd.Context(), member.ID); err != nil {
			return err
		}

		color.Green("Deleted %s", member.FullName)
		return nil
	},
}

var membersRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new member",
	Long: `Register a new member with a package and a profile picture.
The member's password defaults to the gym's standard password when not given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		client := newClient()
		reg := registration
		if reg.Password == "" {
			reg.Password = models.DefaultMemberPassword
		}

		if reg.ServiceID != "" {
			services, err := client.ListServices(cmd.Context())
			if err != nil {
				return errors.New(registrationMessage(err))
			}
			service, err := api.FindService(services, reg.ServiceID)
			if err != nil {
				return err
			}
			reg.TotalPrice = service.PriceValue()
		}

		if err := reg.Validate(); err != nil {
			return err
		}

		if err := client.RegisterMember(cmd.Context(), &reg); err != nil {
			return errors.New(registrationMessage(err))
		}

		color.Green("%s registered successfully.", reg.FullName)
		return nil
	},
}

// registrationMessage words a registration failure for the person at the desk
func registrationMessage(err error) string {
	if errors.Is(err, api.ErrNetwork) {
		return "Network error. Please try again later."
	}
	return api.UserMessage(err, "An unknown error occurred.")
}

func init() {
	rootCmd.AddCommand(membersCmd)

	membersListCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Filter by name, package or start date")
	membersListCmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (active, inactive, frozen, expired, dormant, pending)")

	activateCmd := newActionCmd(models.ActionActivate, "activate <id>", "Activate a membership")
	activateCmd.Flags().StringVar(&dateFlag, "date", "", "Start date (YYYY-MM-DD), today when empty")

	freezeCmd := newActionCmd(models.ActionFreeze, "freeze <id>", "Freeze a membership")
	freezeCmd.Flags().StringVar(&daysFlag, "days", "", "Freeze duration in days")
	_ = freezeCmd.MarkFlagRequired("days")

	actionCmds := []*cobra.Command{
		activateCmd,
		newActionCmd(models.ActionDeactivate, "deactivate <id>", "Deactivate a membership"),
		freezeCmd,
		newActionCmd(models.ActionUnfreeze, "unfreeze <id>", "Unfreeze a membership"),
		newActionCmd(models.ActionDormant, "dormant <id>", "Mark a membership as dormant"),
	}
	for _, c := range actionCmds {
		c.Flags().BoolVar(&forceFlag, "force", false, "Send the change even when the member's status does not offer it")
		membersCmd.AddCommand(c)
	}

	membersDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Do not ask for confirmation")

	f := membersRegisterCmd.Flags()
	f.StringVar(&registration.FullName, "name", "", "Full name")
	f.StringVar(&registration.PhoneNumber, "phone", "", "Phone number")
	f.StringVar(&registration.Password, "password", "", "Password (defaults to the standard member password)")
	f.StringVar(&registration.Email, "email", "", "Email address")
	f.StringVar(&registration.Address, "address", "", "Address")
	f.StringVar(&registration.Dob, "dob", "", "Date of birth (YYYY-MM-DD)")
	f.StringVar(&registration.EmergencyContact, "emergency-contact", "", "Emergency contact")
	f.StringVar(&registration.Gender, "gender", "", "Gender (male or female)")
	f.StringVar(&registration.ServiceID, "package", "", "Service id of the chosen package")
	f.StringVar(&registration.ProfileImagePath, "photo", "", "Path to the profile picture")

	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersShowCmd)
	membersCmd.AddCommand(membersDeleteCmd)
	membersCmd.AddCommand(membersRegisterCmd)
}

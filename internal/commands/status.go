package commands

import (
	"fmt"
	"strconv"

	"gymctl/internal/membership"
	"gymctl/internal/ui/components"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show membership counts",
	Long:  "Show how many members are in each membership status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		ctrl := newController(newClient())
		if err := loadMembers(cmd.Context(), ctrl); err != nil {
			return err
		}

		members := ctrl.Members()
		bold := color.New(color.Bold)
		bold.Printf("Members at %s: %d\n", sess.ServerURL, len(members))

		if len(members) == 0 {
			return nil
		}

		t := newTable("Status", "Members")
		for _, sc := range membership.CountByStatus(members) {
			t.Row(components.StatusStyle(sc.Status).Render(string(sc.Status)), strconv.Itoa(sc.Count))
		}
		fmt.Println(t.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

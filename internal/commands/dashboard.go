package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the attendance dashboard data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		data, err := newClient().GetDashboardAttendance(cmd.Context())
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return fmt.Errorf("error formatting dashboard data: %w", err)
		}
		fmt.Println(out.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

package commands

import (
	"fmt"
	"strings"

	"gymctl/internal/api"
	"gymctl/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var categoryFlag string

var servicesCmd = &cobra.Command{
	Use:     "services",
	Aliases: []string{"packages"},
	Short:   "Browse membership packages",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		services, err := newClient().ListServices(cmd.Context())
		if err != nil {
			return err
		}

		shown := 0
		heading := color.New(color.Bold, color.FgCyan)
		for _, group := range api.GroupServices(services) {
			if categoryFlag != "" && !strings.EqualFold(group.Category, categoryFlag) {
				continue
			}

			heading.Println(group.Category)
			t := newTable("ID", "Name", "Price", "Benefits")
			for i := range group.Services {
				s := &group.Services[i]
				t.Row(s.ID, s.Name, s.Price, util.TruncateText(strings.Join(s.Benefits, ", "), 40))
			}
			fmt.Println(t.String())
			shown++
		}

		if shown == 0 {
			fmt.Println("No packages found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
	servicesCmd.AddCommand(servicesListCmd)

	servicesListCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Only show one category")
}

package commands

import (
	"fmt"

	"gymctl/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive member list",
	Long: `Browse members with search and status filters, and activate, freeze,
unfreeze, deactivate or delete them from a per-member action menu.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		ctrl := newController(newClient())
		model := ui.NewModel(cmd.Context(), ctrl, "Members", logger)

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running member list: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

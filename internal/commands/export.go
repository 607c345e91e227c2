package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gymctl/internal/api"
	"gymctl/internal/export"
	"gymctl/internal/models"
	"gymctl/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ID cards, detail sheets and member lists",
	Long:  "Write printable PDFs and CSV files for members into the output directory",
}

var exportIDCmd = &cobra.Command{
	Use:   "id <member>",
	Short: "Export a member's ID card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, member, err := exportTarget(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		exporter := newExporter(client)
		return writeExport(export.IDCardFileName(member), func(w io.Writer) error {
			return exporter.IDCard(cmd.Context(), w, member)
		})
	},
}

var exportDetailsCmd = &cobra.Command{
	Use:   "details <member>",
	Short: "Export a member's detail sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, member, err := exportTarget(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		exporter := newExporter(client)
		return writeExport(export.DetailsFileName(member), func(w io.Writer) error {
			return exporter.Details(cmd.Context(), w, member)
		})
	},
}

var exportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Export every member's detail sheet into one PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		client := newClient()
		ctrl := newController(client)
		if err := loadMembers(cmd.Context(), ctrl); err != nil {
			return err
		}

		exporter := newExporter(client)
		members := ctrl.Members()
		return writeExport(export.AllDetailsFileName, func(w io.Writer) error {
			return exporter.AllDetails(cmd.Context(), w, members)
		})
	},
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export the member list as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		ctrl := newController(newClient())
		if err := loadMembers(cmd.Context(), ctrl); err != nil {
			return err
		}

		members := ctrl.Filter(searchFlag, models.Status(statusFlag))
		return writeExport("members.csv", func(w io.Writer) error {
			return export.WriteCSV(w, members)
		})
	},
}

func newExporter(client *api.Client) *export.Exporter {
	gym := globalConfig.Gym
	return export.NewExporter(export.Branding{
		Name:     gym.Name,
		Address:  gym.Address,
		Phones:   gym.Phones,
		Website:  gym.Website,
		LogoPath: gym.LogoPath,
	}, client, logger)
}

// exportTarget resolves ref against the member list and fetches the full record.
// The list entry is used when the detail request fails.
func exportTarget(ctx context.Context, ref string) (*api.Client, *models.Member, error) {
	if err := requireLogin(); err != nil {
		return nil, nil, err
	}

	client := newClient()
	ctrl := newController(client)
	if err := loadMembers(ctx, ctrl); err != nil {
		return nil, nil, err
	}

	listed, err := resolveMember(ctrl, ref)
	if err != nil {
		return nil, nil, err
	}

	member, err := client.GetMember(ctx, listed.ID)
	if err != nil {
		logger.Warn("using list entry for export", zap.String("id", listed.ID), zap.Error(err))
		return client, &listed, nil
	}
	return client, member, nil
}

// writeExport creates name inside the output directory and fills it with write
func writeExport(name string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	path := filepath.Join(outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	color.Green("Wrote %s (%s)", path, util.FormatSize(info.Size()))
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportIDCmd)
	exportCmd.AddCommand(exportDetailsCmd)
	exportCmd.AddCommand(exportAllCmd)
	exportCmd.AddCommand(exportCSVCmd)

	exportCmd.PersistentFlags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	exportCSVCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Filter by name, package or start date")
	exportCSVCmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status")
}

package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gymctl/internal/api"
	"gymctl/internal/membership"
	"gymctl/internal/models"
	"gymctl/internal/ui/components"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// attendance list
	attendanceDate   string
	attendanceSearch string
)

// attendanceRecorder is the part of the API client the check-in commands use
type attendanceRecorder interface {
	RecordAttendance(ctx context.Context, id string) (*models.AttendanceReceipt, error)
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Record and list attendance",
}

var attendanceRecordCmd = &cobra.Command{
	Use:   "record <id>",
	Short: "Check a member in",
	Long:  "Record today's visit for the member with the given id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		if !recordAttendance(cmd.Context(), newClient(), os.Stdout, args[0]) {
			return fmt.Errorf("attendance was not recorded")
		}
		return nil
	},
}

var attendanceScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Check members in from a barcode scanner",
	Long: `Read member ids from standard input, one per line, and record attendance for each.
Barcode scanners type the id followed by Enter. Blank lines are skipped; stop with Ctrl-D.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		recorded, failed, err := scanAttendance(cmd.Context(), newClient(), os.Stdin, os.Stdout)
		if err != nil {
			return err
		}

		fmt.Printf("\n%d recorded, %d failed\n", recorded, failed)
		return nil
	},
}

var attendanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		date := attendanceDate
		if date == "" {
			date = time.Now().Format(time.DateOnly)
		}
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}

		records, err := newClient().ListAttendance(cmd.Context(), date)
		if err != nil {
			return err
		}

		records = membership.FilterAttendance(records, attendanceSearch)
		if len(records) == 0 {
			fmt.Printf("No attendance recorded on %s.\n", date)
			return nil
		}

		t := newTable("Name", "Phone", "Status", "Days Left", "Start Date")
		for i := range records {
			r := &records[i]
			t.Row(
				r.FullName,
				r.PhoneNumber,
				components.StatusStyle(r.Status).Render(string(r.Status)),
				fmt.Sprintf("%d", r.DaysLeft),
				r.StartDay(),
			)
		}
		fmt.Println(t.String())
		fmt.Printf("%d members on %s\n", len(records), date)
		return nil
	},
}

// recordAttendance checks one member in and prints the outcome to w
func recordAttendance(ctx context.Context, client attendanceRecorder, w io.Writer, id string) bool {
	receipt, err := client.RecordAttendance(ctx, id)
	if err != nil {
		logger.Warn("attendance not recorded", zap.String("id", id), zap.Error(err))
		color.New(color.FgRed).Fprintln(w, api.UserMessage(err, "An error occurred."))
		return false
	}

	color.New(color.FgGreen).Fprintf(w, "Attendance recorded for %s successfully!\n", receipt.Name)
	return true
}

// scanAttendance records one visit per non-blank line of in
func scanAttendance(ctx context.Context, client attendanceRecorder, in io.Reader, w io.Writer) (recorded, failed int, err error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return recorded, failed, ctx.Err()
		}

		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}

		if recordAttendance(ctx, client, w, id) {
			recorded++
		} else {
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return recorded, failed, fmt.Errorf("error reading scanned ids: %w", err)
	}
	return recorded, failed, nil
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(attendanceRecordCmd)
	attendanceCmd.AddCommand(attendanceScanCmd)
	attendanceCmd.AddCommand(attendanceListCmd)

	attendanceListCmd.Flags().StringVar(&attendanceDate, "date", "", "Day to list (YYYY-MM-DD), today when empty")
	attendanceListCmd.Flags().StringVarP(&attendanceSearch, "search", "s", "", "Filter by name")
}

package commands

import (
	"fmt"
	"io"

	"gymctl/internal/models"
	"gymctl/internal/ui/components"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// newTable returns a table styled like the rest of the CLI output
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// memberTable renders members the way the admin list shows them.
// Days left is only shown for active and expired members.
func memberTable(members []models.Member) string {
	t := newTable("ID", "Name", "Phone", "Status", "Days Left", "Service", "Start Date")
	for i := range members {
		m := &members[i]
		t.Row(
			m.ID,
			m.FullName,
			m.PhoneNumber,
			components.StatusStyle(m.Status).Render(string(m.Status)),
			m.DaysLeftLabel(),
			m.ServiceName(),
			m.StartDay(),
		)
	}
	return t.String()
}

func printMember(w io.Writer, m *models.Member) {
	rows := [][2]string{
		{"ID", m.ID},
		{"Name", m.FullName},
		{"Gender", m.Gender},
		{"Phone", m.PhoneNumber},
		{"Email", models.StringOr(m.Email, "-")},
		{"Address", models.StringOr(m.Address, "-")},
		{"Emergency contact", models.StringOr(m.EmergencyContact, "-")},
		{"Status", components.StatusStyle(m.Status).Render(string(m.Status))},
		{"Days left", m.DaysLeftLabel()},
		{"Service", m.ServiceName()},
		{"Start date", m.StartDay()},
		{"Total attendance", fmt.Sprintf("%d", m.TotalAttendance)},
	}
	if v, ok := m.LatestBMI(); ok {
		rows = append(rows, [2]string{"BMI", fmt.Sprintf("%.1f", v)})
	}
	if m.FreezeDate != nil {
		rows = append(rows, [2]string{"Frozen since", models.StringOr(m.FreezeDate, "")})
	}

	label := color.New(color.Bold)
	for _, row := range rows {
		label.Fprintf(w, "%-18s", row[0]+":")
		fmt.Fprintln(w, row[1])
	}
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"gymctl/internal/models"
)

var csvHeader = []string{"Name", "Phone", "Status", "Days Left", "Service", "Start Date"}

// WriteCSV writes the member list as it appears in the admin table
func WriteCSV(w io.Writer, members []models.Member) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for i := range members {
		m := &members[i]
		row := []string{
			m.FullName,
			m.PhoneNumber,
			string(m.Status),
			m.DaysLeftLabel(),
			m.ServiceName(),
			m.StartDay(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row for %s: %w", m.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

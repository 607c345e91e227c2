package membership

import (
	"strings"

	"gymctl/internal/models"
)

// Matches reports whether m passes the list filters.
// The search term is a case-insensitive substring of the full name, the plan name
// or the start date. A non-empty status must match exactly, ignoring case.
func Matches(m *models.Member, search string, status models.Status) bool {
	if status != "" && !strings.EqualFold(string(m.Status), string(status)) {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}

	return strings.Contains(strings.ToLower(m.FullName), term) ||
		strings.Contains(strings.ToLower(m.ServiceName()), term) ||
		strings.Contains(strings.ToLower(m.StartDate), term)
}

// FilterAttendance keeps the records whose name contains search, ignoring case
func FilterAttendance(records []models.AttendanceRecord, search string) []models.AttendanceRecord {
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if term == "" || strings.Contains(strings.ToLower(r.FullName), term) {
			out = append(out, r)
		}
	}
	return out
}

// StatusCount is the number of members in one status
type StatusCount struct {
	Status models.Status
	Count  int
}

// CountByStatus tallies members per known status, in display order.
// Members with unrecognised statuses are counted under their raw value after the known ones.
func CountByStatus(members []models.Member) []StatusCount {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	var unknown []models.Status
	for _, m := range members {
		if !m.Status.IsValid() {
			if _, seen := counts[m.Status]; !seen {
				unknown = append(unknown, m.Status)
			}
		}
		counts[m.Status]++
	}

	out := make([]StatusCount, 0, len(models.AllStatuses)+len(unknown))
	for _, s := range models.AllStatuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	for _, s := range unknown {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

package models

// AttendanceRecord is one row of the daily attendance list
type AttendanceRecord struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Status      Status `json:"status"`
	DaysLeft    int    `json:"daysLeft"`
	StartDate   string `json:"startDate"`
}

// StartDay returns the date part of StartDate
func (r *AttendanceRecord) StartDay() string {
	if len(r.StartDate) > 10 {
		return r.StartDate[:10]
	}
	return r.StartDate
}

// AttendanceReceipt is what the server returns after recording a visit
type AttendanceReceipt struct {
	Name            string `json:"name"`
	TotalAttendance int    `json:"totalAttendance"`
}

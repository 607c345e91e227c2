package models

import (
	"strconv"
	"strings"
)

// Status represents a member's subscription lifecycle state
type Status string

const (
	StatusPending  Status = "pending"  // Registered, waiting for first activation
	StatusActive   Status = "active"   // Subscription running
	StatusInactive Status = "inactive" // Deactivated by an admin
	StatusExpired  Status = "expired"  // Subscription ran out
	StatusFrozen   Status = "frozen"   // Paused for a number of days
	StatusDormant  Status = "dormant"  // Parked, not expected back soon
)

// AllStatuses lists every status in the order the admin views present them
var AllStatuses = []Status{
	StatusActive,
	StatusInactive,
	StatusFrozen,
	StatusExpired,
	StatusDormant,
	StatusPending,
}

// IsValid reports whether s is one of the known statuses.
// Comparison is exact: the server has been seen sending "Freeze" and "freeze"
// and those are not silently mapped onto "frozen".
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive, StatusExpired, StatusFrozen, StatusDormant:
		return true
	}
	return false
}

// HasDaysLeft reports whether the daysLeft counter means anything for this status
func (s Status) HasDaysLeft() bool {
	return s == StatusActive || s == StatusExpired
}

// Service represents a subscription plan a member is assigned to
type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Description []string `json:"description,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// PriceValue parses the plan price, returning 0 when it is missing or malformed
func (s *Service) PriceValue() float64 {
	if s == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s.Price), 64)
	if err != nil {
		return 0
	}
	return v
}

// BMI is a single body-mass-index measurement
type BMI struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Value  float64 `json:"value"`
}

// HealthCondition holds the answers from the registration health questionnaire
type HealthCondition struct {
	ExerciseRestriction   bool   `json:"exerciseRestriction"`
	PainDuringExercise    bool   `json:"painDuringExercise"`
	DizzinessOrFainting   bool   `json:"dizzinessOrFainting"`
	BoneOrJointDisease    bool   `json:"boneOrJointDisease"`
	HeartHypertensionMeds bool   `json:"heartHypertensionMeds"`
	ChronicDiseases       string `json:"chronicDiseases"`
	AdditionalRemarks     string `json:"additionalRemarks"`
}

// Member represents a gym subscriber record as served by the API
type Member struct {
	ID                 string           `json:"id"`
	Barcode            string           `json:"barcode,omitempty"`
	FullName           string           `json:"fullName"`
	Gender             string           `json:"gender"`
	PhoneNumber        string           `json:"phoneNumber"`
	Email              *string          `json:"email,omitempty"`
	Address            *string          `json:"address,omitempty"`
	Dob                *string          `json:"dob,omitempty"`
	EmergencyContact   *string          `json:"emergencyContact,omitempty"`
	FirstRegisteredAt  string           `json:"firstRegisteredAt,omitempty"`
	StartDate          string           `json:"startDate"`
	TotalAttendance    int              `json:"totalAttendance"`
	PreFreezeAttend    int              `json:"preFreezeAttendance"`
	PreFreezeDaysCount int              `json:"preFreezeDaysCount"`
	DaysLeft           int              `json:"daysLeft"`
	Height             *float64         `json:"height,omitempty"`
	Weight             *float64         `json:"weight,omitempty"`
	BMIs               []BMI            `json:"bmis,omitempty"`
	HealthCondition    *HealthCondition `json:"healthCondition,omitempty"`
	Level              *string          `json:"level,omitempty"`
	Goal               *string          `json:"goal,omitempty"`
	Role               string           `json:"role"`
	Status             Status           `json:"status"`
	FreezeDate         *string          `json:"freezeDate,omitempty"`
	CreatedAt          string           `json:"createdAt,omitempty"`
	UpdatedAt          string           `json:"updatedAt,omitempty"`
	ServiceID          *string          `json:"serviceId,omitempty"`
	ProfileImageURL    *string          `json:"profileImageUrl,omitempty"`
	Service            *Service         `json:"service,omitempty"`
}

// ServiceName returns the name of the assigned plan, or "" when none is assigned
func (m *Member) ServiceName() string {
	if m.Service == nil {
		return ""
	}
	return m.Service.Name
}

// StartDay returns the date part of StartDate
func (m *Member) StartDay() string {
	if len(m.StartDate) > 10 {
		return m.StartDate[:10]
	}
	return m.StartDate
}

// DaysLeftLabel renders DaysLeft, or "-" when the status makes it meaningless
func (m *Member) DaysLeftLabel() string {
	if !m.Status.HasDaysLeft() {
		return "-"
	}
	return strconv.Itoa(m.DaysLeft)
}

// LatestBMI returns the first BMI measurement the server sent.
// ok is false when the member has no measurement.
func (m *Member) LatestBMI() (value float64, ok bool) {
	if len(m.BMIs) == 0 {
		return 0, false
	}
	return m.BMIs[0].Value, true
}

// StringOr dereferences an optional string field, falling back when it is nil or blank
func StringOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

package models_test

import (
	"errors"
	"testing"

	"gymctl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemberDaysLeftLabel(t *testing.T) {
	tests := []struct {
		status models.Status
		want   string
	}{
		{models.StatusActive, "12"},
		{models.StatusExpired, "12"},
		{models.StatusFrozen, "-"},
		{models.StatusPending, "-"},
		{models.StatusDormant, "-"},
		{models.StatusInactive, "-"},
	}

	for _, tt := range tests {
		m := models.Member{Status: tt.status, DaysLeft: 12}
		assert.Equal(t, tt.want, m.DaysLeftLabel(), "status %s", tt.status)
	}
}

func TestMemberStartDay(t *testing.T) {
	m := models.Member{StartDate: "2024-11-02T08:30:00.000Z"}
	assert.Equal(t, "2024-11-02", m.StartDay())

	m.StartDate = "2024"
	assert.Equal(t, "2024", m.StartDay())
}

func TestMemberLatestBMI(t *testing.T) {
	m := models.Member{}
	_, ok := m.LatestBMI()
	assert.False(t, ok)

	m.BMIs = []models.BMI{{Value: 22.5}, {Value: 30}}
	v, ok := m.LatestBMI()
	assert.True(t, ok)
	assert.Equal(t, 22.5, v)
}

func TestServiceNameAndPrice(t *testing.T) {
	m := models.Member{}
	assert.Equal(t, "", m.ServiceName())

	m.Service = &models.Service{Name: "Body Building", Price: " 1500 "}
	assert.Equal(t, "Body Building", m.ServiceName())
	assert.Equal(t, 1500.0, m.Service.PriceValue())

	m.Service.Price = "call us"
	assert.Equal(t, 0.0, m.Service.PriceValue())
}

func TestStringOr(t *testing.T) {
	assert.Equal(t, "N/A", models.StringOr(nil, "N/A"))
	assert.Equal(t, "N/A", models.StringOr(strPtr("  "), "N/A"))
	assert.Equal(t, "Bole", models.StringOr(strPtr("Bole"), "N/A"))
}

func TestRegistrationValidate(t *testing.T) {
	valid := func() models.Registration {
		return models.Registration{
			FullName:         "Abebe Kebede",
			PhoneNumber:      "0911000000",
			ServiceID:        "svc-1",
			ProfileImagePath: "/tmp/me.jpg",
		}
	}

	t.Run("valid form gets the default password", func(t *testing.T) {
		r := valid()
		require.NoError(t, r.Validate())
		assert.Equal(t, models.DefaultMemberPassword, r.Password)
	})

	t.Run("missing package", func(t *testing.T) {
		r := valid()
		r.ServiceID = ""
		r.ProfileImagePath = ""
		err := r.Validate()
		require.Error(t, err)
		assert.Equal(t, "Please choose a package.", err.Error())
		assert.True(t, errors.Is(err, models.ErrInvalidRegistration))
	})

	t.Run("missing picture", func(t *testing.T) {
		r := valid()
		r.ProfileImagePath = ""
		err := r.Validate()
		require.Error(t, err)
		assert.Equal(t, "Please upload a picture", err.Error())
	})

	t.Run("bad email", func(t *testing.T) {
		r := valid()
		r.Email = "not-an-email"
		err := r.Validate()
		require.Error(t, err)
		var fe *models.FormError
		assert.True(t, errors.As(err, &fe))
	})
}

func TestRegistrationFieldsSkipEmpty(t *testing.T) {
	r := models.Registration{FullName: "Abebe", ServiceID: "svc-1"}
	fields := r.Fields()

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f[0])
	}
	assert.Equal(t, []string{"fullName", "selectedPackage", "serviceId"}, keys)
}

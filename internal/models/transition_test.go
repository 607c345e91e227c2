package models_test

import (
	"testing"

	"gymctl/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestActionsFor(t *testing.T) {
	tests := []struct {
		status models.Status
		want   []models.Action
	}{
		{models.StatusPending, []models.Action{models.ActionActivate, models.ActionDormant, models.ActionDelete}},
		{models.StatusActive, []models.Action{models.ActionDeactivate, models.ActionFreeze, models.ActionDormant, models.ActionDelete}},
		{models.StatusInactive, []models.Action{models.ActionActivate, models.ActionDormant, models.ActionDelete}},
		{models.StatusExpired, []models.Action{models.ActionActivate, models.ActionDormant, models.ActionDelete}},
		{models.StatusFrozen, []models.Action{models.ActionUnfreeze, models.ActionDormant, models.ActionDeactivate, models.ActionDelete}},
		{models.StatusDormant, []models.Action{models.ActionActivate, models.ActionDelete}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, models.ActionsFor(tt.status))
		})
	}
}

func TestActionsForUnknownStatus(t *testing.T) {
	for _, s := range []models.Status{"Freeze", "freeze", "Active", ""} {
		assert.Equal(t, []models.Action{models.ActionDelete}, models.ActionsFor(s), "status %q", s)
	}
}

func TestActionsForDoesNotAliasTable(t *testing.T) {
	first := models.ActionsFor(models.StatusActive)
	first[0] = models.ActionDelete

	assert.Equal(t, models.ActionDeactivate, models.ActionsFor(models.StatusActive)[0])
}

func TestAllows(t *testing.T) {
	assert.True(t, models.Allows(models.StatusActive, models.ActionFreeze))
	assert.False(t, models.Allows(models.StatusPending, models.ActionFreeze))
	assert.False(t, models.Allows(models.StatusDormant, models.ActionDormant))
	assert.True(t, models.Allows(models.StatusDormant, models.ActionDelete))
}

func TestWireAndResultStatus(t *testing.T) {
	tests := []struct {
		action     models.Action
		wire       string
		result     models.Status
		wantResult bool
	}{
		{models.ActionActivate, "active", models.StatusActive, true},
		{models.ActionDeactivate, "inactive", models.StatusInactive, true},
		{models.ActionFreeze, "frozen", models.StatusFrozen, true},
		{models.ActionUnfreeze, "unfreeze", models.StatusActive, true},
		{models.ActionDormant, "dormant", models.StatusDormant, true},
		{models.ActionDelete, "", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			wire, ok := tt.action.WireStatus()
			assert.Equal(t, tt.wantResult, ok)
			assert.Equal(t, tt.wire, wire)

			result, ok := tt.action.ResultStatus()
			assert.Equal(t, tt.wantResult, ok)
			assert.Equal(t, tt.result, result)
		})
	}
}

// Every non-delete action offered from any status must land on a known status.
func TestTransitionsStayInsideEnum(t *testing.T) {
	for _, from := range models.AllStatuses {
		for _, a := range models.ActionsFor(from) {
			if a == models.ActionDelete {
				continue
			}
			to, ok := a.ResultStatus()
			assert.True(t, ok)
			assert.True(t, to.IsValid(), "%s --%s--> %s", from, a, to)
		}
	}
}

func TestInputRequirements(t *testing.T) {
	assert.True(t, models.ActionActivate.NeedsDate())
	assert.False(t, models.ActionActivate.NeedsDuration())
	assert.True(t, models.ActionFreeze.NeedsDuration())
	assert.False(t, models.ActionDormant.NeedsDate())
}

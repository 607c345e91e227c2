package models

// Action is an admin-triggered operation offered on a member row
type Action string

const (
	ActionActivate   Action = "Activate"
	ActionDeactivate Action = "Deactivate"
	ActionFreeze     Action = "Freeze"
	ActionUnfreeze   Action = "Unfreeze"
	ActionDormant    Action = "Dormant"
	ActionDelete     Action = "Delete"
)

// transitions maps a current status to the actions valid from it, in menu order.
// Delete is valid from every status and appended by ActionsFor.
var transitions = map[Status][]Action{
	StatusPending:  {ActionActivate, ActionDormant},
	StatusActive:   {ActionDeactivate, ActionFreeze, ActionDormant},
	StatusInactive: {ActionActivate, ActionDormant},
	StatusExpired:  {ActionActivate, ActionDormant},
	StatusFrozen:   {ActionUnfreeze, ActionDormant, ActionDeactivate},
	StatusDormant:  {ActionActivate},
}

// ActionsFor returns the actions an admin may pick for a member in the given status.
// Unknown statuses only get Delete.
func ActionsFor(status Status) []Action {
	allowed := transitions[status]
	actions := make([]Action, 0, len(allowed)+1)
	actions = append(actions, allowed...)
	return append(actions, ActionDelete)
}

// Allows reports whether action is offered for status
func Allows(status Status, action Action) bool {
	for _, a := range ActionsFor(status) {
		if a == action {
			return true
		}
	}
	return false
}

// WireStatus returns the status string the server expects for the action.
// Unfreeze is sent as "unfreeze" and the server moves the member back to active.
func (a Action) WireStatus() (string, bool) {
	switch a {
	case ActionActivate:
		return string(StatusActive), true
	case ActionDeactivate:
		return string(StatusInactive), true
	case ActionFreeze:
		return string(StatusFrozen), true
	case ActionUnfreeze:
		return "unfreeze", true
	case ActionDormant:
		return string(StatusDormant), true
	}
	return "", false
}

// ResultStatus is the status a member ends up in after the action succeeds
func (a Action) ResultStatus() (Status, bool) {
	switch a {
	case ActionActivate, ActionUnfreeze:
		return StatusActive, true
	case ActionDeactivate:
		return StatusInactive, true
	case ActionFreeze:
		return StatusFrozen, true
	case ActionDormant:
		return StatusDormant, true
	}
	return "", false
}

// NeedsDate reports whether the action collects an effective date first
func (a Action) NeedsDate() bool {
	return a == ActionActivate
}

// NeedsDuration reports whether the action collects a freeze duration first
func (a Action) NeedsDuration() bool {
	return a == ActionFreeze
}

// Label is the menu text shown for an action
func (a Action) Label() string {
	switch a {
	case ActionDeactivate:
		return "Inactive"
	case ActionActivate:
		return "Active"
	}
	return string(a)
}

// StatusUpdate is the request body for a status change
type StatusUpdate struct {
	Status         string `json:"status"`
	StartDate      string `json:"startDate,omitempty"`
	FreezeDuration *int   `json:"freezeDuration,omitempty"`
}

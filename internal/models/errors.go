package models

import (
	"errors"
)

// Member-related errors
var (
	// ErrMemberNotFound is returned when a member id is unknown locally or on the server
	ErrMemberNotFound = errors.New("member not found")

	// ErrUnknownAction is returned when an action has no wire representation
	ErrUnknownAction = errors.New("unknown member action")

	// ErrInvalidDate is returned when an activation date cannot be parsed
	ErrInvalidDate = errors.New("invalid activation date")

	// ErrInvalidFreezeDuration is returned when a freeze duration is not an integer
	ErrInvalidFreezeDuration = errors.New("freeze duration must be a whole number of days")
)

// Registration errors
var (
	// ErrInvalidRegistration wraps every client-side registration form error
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrServiceNotFound is returned when the chosen package is not offered
	ErrServiceNotFound = errors.New("service not found")
)

// Session errors
var (
	// ErrNotLoggedIn is returned when a command needs a token and none is stored
	ErrNotLoggedIn = errors.New("not logged in")
)

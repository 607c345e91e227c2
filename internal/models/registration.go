package models

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// DefaultMemberPassword is the password new members get until they change it
const DefaultMemberPassword = "mf1234"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Registration is the sign-up form posted as multipart to the members endpoint
type Registration struct {
	FullName         string `form:"fullName" validate:"required,max=100"`
	PhoneNumber      string `form:"phoneNumber" validate:"required,max=20"`
	Password         string `form:"password" validate:"required"`
	Email            string `form:"email" validate:"omitempty,email"`
	Address          string `form:"address"`
	Dob              string `form:"dob" validate:"omitempty,datetime=2006-01-02"`
	EmergencyContact string `form:"emergencyContact"`
	Gender           string `form:"gender" validate:"omitempty,oneof=male female"`
	ServiceID        string `form:"serviceId" validate:"required"`
	ProfileImagePath string `form:"-" validate:"required"`

	// TotalPrice is the price of the chosen package, resolved from the services list
	TotalPrice float64 `form:"totalPrice" validate:"gte=0"`
}

// Fields returns the text form fields in a stable order, skipping empty values
func (r *Registration) Fields() [][2]string {
	all := [][2]string{
		{"fullName", r.FullName},
		{"phoneNumber", r.PhoneNumber},
		{"password", r.Password},
		{"email", r.Email},
		{"address", r.Address},
		{"dob", r.Dob},
		{"emergencyContact", r.EmergencyContact},
		{"gender", r.Gender},
		{"selectedPackage", r.ServiceID},
		{"serviceId", r.ServiceID},
	}
	if r.TotalPrice > 0 {
		all = append(all, [2]string{"totalPrice", strconv.FormatFloat(r.TotalPrice, 'f', -1, 64)})
	}

	fields := make([][2]string, 0, len(all))
	for _, f := range all {
		if f[1] != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Validate checks the form before it is sent.
// The returned error carries the message shown to the person registering.
func (r *Registration) Validate() error {
	if r.Password == "" {
		r.Password = DefaultMemberPassword
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// Report the package and picture first, the same order the form checks them
	for _, field := range []string{"ServiceID", "ProfileImagePath"} {
		for _, fe := range verrs {
			if fe.StructField() == field {
				return registrationMessage(fe)
			}
		}
	}
	return registrationMessage(verrs[0])
}

// FormError is a registration problem worded for the person filling in the form
type FormError struct {
	Message string
}

func (e *FormError) Error() string {
	return e.Message
}

func (e *FormError) Unwrap() error {
	return ErrInvalidRegistration
}

func registrationMessage(fe validator.FieldError) error {
	switch fe.StructField() {
	case "ServiceID":
		return &FormError{Message: "Please choose a package."}
	case "ProfileImagePath":
		return &FormError{Message: "Please upload a picture"}
	}
	return &FormError{Message: fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())}
}

package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// CustomerDetails holds the shipping form fields. All four are required.
type CustomerDetails struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// ValidationError reports a single rejected form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks presence of every required field and the basic shape of
// the email address. It returns the first violation found.
func (d CustomerDetails) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(d.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "is required"}
	}
	if strings.TrimSpace(d.Email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if strings.TrimSpace(d.Address) == "" {
		return &ValidationError{Field: "address", Reason: "is required"}
	}
	return nil
}

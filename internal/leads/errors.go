package leads

import "errors"

var (
	// ErrMissingField is returned when a required submission field is empty
	ErrMissingField = errors.New("missing required fields")

	// ErrConsentRequired is returned when the visitor did not tick consent
	ErrConsentRequired = errors.New("consent required")

	// ErrInvalidEmail is returned when the email fails the basic format check
	ErrInvalidEmail = errors.New("invalid email")

	// ErrRecordWrite is returned when the system-of-record append fails
	ErrRecordWrite = errors.New("record write failed")
)

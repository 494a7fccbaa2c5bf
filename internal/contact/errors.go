package contact

import (
	"errors"
	"strings"
)

// Response messages returned to the browser.
const (
	MsgAcknowledged   = "Message sent successfully! I'll get back to you soon."
	MsgFieldsRequired = "All fields are required"
	MsgInvalidEmail   = "Invalid email format"
	MsgMalformed      = "Something went wrong"
	MsgUnexpected     = "Something went wrong. Please try again later."
)

var (
	ErrMissingFields    = errors.New("contact: missing required fields")
	ErrInvalidEmail     = errors.New("contact: invalid email format")
	ErrMalformedPayload = errors.New("contact: malformed payload")
)

// ValidationError is a client mistake whose message is safe to return verbatim.
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Err.Error() + ": " + strings.Join(e.Fields, ",")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message is the user-facing text for the failed check.
func (e *ValidationError) Message() string {
	if errors.Is(e.Err, ErrInvalidEmail) {
		return MsgInvalidEmail
	}
	return MsgFieldsRequired
}

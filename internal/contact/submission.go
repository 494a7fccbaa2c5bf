package contact

import (
	"regexp"
	"strings"
)

// emailPattern accepts local@domain.tld with no whitespace and a single @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is one contact form payload. It lives for a single request.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks field presence first and the email format second.
// Whitespace-only fields count as missing.
func (s Submission) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"subject", s.Subject},
		{"message", s.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Err: ErrMissingFields}
	}
	if !ValidEmail(s.Email) {
		return &ValidationError{Fields: []string{"email"}, Err: ErrInvalidEmail}
	}
	return nil
}

// ValidEmail reports whether addr matches the accepted address pattern.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

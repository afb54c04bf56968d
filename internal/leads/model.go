package leads

import "regexp"

// Submission is one inbound lead from the marketing site form. It lives for
// the duration of a single request; only the derived sheet row and CRM field
// map survive.
type Submission struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DialCode   string `json:"dialCode"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Language   string `json:"language,omitempty"`
	GoldenVisa bool   `json:"goldenVisa"`
	Consent    bool   `json:"consent"`
	Path       string `json:"path,omitempty"`
	// Timestamp is overwritten server-side with the processing time.
	Timestamp string `json:"timestamp,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks required fields, consent, and the email format. It is a
// pure check: a rejected submission causes no side effects.
func (s *Submission) Validate() error {
	if s.FirstName == "" || s.LastName == "" || s.DialCode == "" || s.Phone == "" || s.Email == "" {
		return ErrMissingField
	}
	if !s.Consent {
		return ErrConsentRequired
	}
	if !emailPattern.MatchString(s.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// SheetRow flattens the submission into the fixed spreadsheet column order:
// timestamp, firstName, lastName, dialCode, phone, fullPhone, email,
// language, goldenVisa, consent, path.
func (s *Submission) SheetRow(timestamp, fullPhone string) []any {
	return []any{
		timestamp,
		s.FirstName,
		s.LastName,
		s.DialCode,
		s.Phone,
		fullPhone,
		s.Email,
		s.Language,
		sheetBool(s.GoldenVisa),
		sheetBool(s.Consent),
		s.Path,
	}
}

func sheetBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

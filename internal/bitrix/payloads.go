package bitrix

import "strings"

// Lead carries the already-normalized submission data the CRM needs.
type Lead struct {
	FirstName  string
	LastName   string
	FullPhone  string
	Email      string
	Language   string
	GoldenVisa bool
	Consent    bool
	Path       string
	Timestamp  string
}

// LeadResult is the outcome of a successful crm.lead.add call.
type LeadResult struct {
	// ID is the CRM-assigned lead identifier.
	ID int
	// Encoding names the request encoding that succeeded ("json" or "form").
	Encoding string
}

// PhoneField is one entry of the PHONE multi-field.
type PhoneField struct {
	Value     string `json:"VALUE"`
	ValueType string `json:"VALUE_TYPE"`
}

// EmailField is one entry of the EMAIL multi-field.
type EmailField struct {
	Value     string `json:"VALUE"`
	ValueType string `json:"VALUE_TYPE"`
}

// LeadFields mirrors the crm.lead.add field map.
type LeadFields struct {
	Title    string       `json:"TITLE"`
	Name     string       `json:"NAME"`
	LastName string       `json:"LAST_NAME"`
	Phone    []PhoneField `json:"PHONE"`
	Email    []EmailField `json:"EMAIL"`
	SourceID string       `json:"SOURCE_ID"`
	Comments string       `json:"COMMENTS,omitempty"`
}

type leadAddRequest struct {
	Fields LeadFields `json:"fields"`
}

func (l Lead) fields() LeadFields {
	title := strings.TrimSpace("Website Lead – " + l.FirstName + " " + l.LastName)
	comments := strings.Join([]string{
		"Source Path: " + l.Path,
		"Preferred Language: " + l.Language,
		"Golden Visa: " + yesNo(l.GoldenVisa),
		"Consent: " + yesNo(l.Consent),
		"Submitted At: " + l.Timestamp,
	}, "\n")
	return LeadFields{
		Title:    title,
		Name:     l.FirstName,
		LastName: l.LastName,
		Phone:    []PhoneField{{Value: l.FullPhone, ValueType: "WORK"}},
		Email:    []EmailField{{Value: l.Email, ValueType: "WORK"}},
		SourceID: "WEB",
		Comments: comments,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

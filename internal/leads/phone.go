package leads

import (
	"regexp"
	"strings"
)

var phoneStrip = regexp.MustCompile(`[^\d+]`)

// NormalizePhone combines a dial code and a raw phone number into one
// canonical string: the trimmed dial code, a single space, and the phone with
// everything except digits and '+' stripped. Normalizing an already
// normalized number yields the same string.
func NormalizePhone(dialCode, phone string) string {
	cleanDial := strings.TrimSpace(dialCode)
	cleanPhone := strings.TrimSpace(phoneStrip.ReplaceAllString(phone, ""))
	return strings.TrimSpace(cleanDial + " " + cleanPhone)
}

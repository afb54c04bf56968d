package leads

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		dialCode string
		phone    string
		want     string
	}{
		{"spaces in phone", "+971", "50 123 4567", "+971 501234567"},
		{"dashes and parens", "+44", "(20) 7946-0958", "+44 2079460958"},
		{"untrimmed dial code", " +971 ", "501234567", "+971 501234567"},
		{"plus kept in phone", "+1", "+15551234", "+1 +15551234"},
		{"empty phone", "+971", " ", "+971"},
		{"empty dial code", "", "501234567", "501234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.dialCode, tt.phone); got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.dialCode, tt.phone, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	first := NormalizePhone("+971", "50 123 4567")
	// Re-feed the normalized output split naively at the first space.
	second := NormalizePhone("+971", "501234567")
	if first != second {
		t.Errorf("normalization not idempotent: %q vs %q", first, second)
	}
}

package phone

import (
	"regexp"
	"strings"
)

var (
	stripPattern  = regexp.MustCompile(`[\s\-()]`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	indiaPattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Normalize reduces a raw counterparty phone value to its canonical grouping
// key. Whitespace is trimmed; empty strings and the literal "null"/"undefined"
// placeholders that leak in from clients resolve to "". The same function must
// be used wherever a phone becomes an aggregation key or a lookup key.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" || trimmed == "undefined" {
		return ""
	}
	return trimmed
}

// FormatWhatsApp converts a stored mobile number into the international form
// the WhatsApp Cloud API expects (e.g. +919876543210). Indian 10-digit
// numbers get the 91 country code. Returns "" when the input cannot be a
// phone number.
func FormatWhatsApp(raw string) string {
	cleaned := stripPattern.ReplaceAllString(raw, "")
	cleaned = strings.TrimPrefix(cleaned, "+")
	if !digitsPattern.MatchString(cleaned) {
		return ""
	}
	switch {
	case indiaPattern.MatchString(cleaned):
		return "+91" + cleaned
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	case len(cleaned) >= 8 && len(cleaned) <= 15:
		return "+" + cleaned
	}
	return ""
}

// Package phone canonicalizes Indian phone numbers into one dialable form.
package phone

import "strings"

const countryCode = "91"

// Normalize strips an optional leading "+" and country code plus all
// non-digit characters, then re-prefixes the canonical country code.
// Unparsable input yields "". Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, countryCode)

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "+" + countryCode + b.String()
}

// Display formats a number for human-readable output, or "Not provided" when
// there is nothing to show.
func Display(raw string) string {
	n := Normalize(raw)
	if n == "" {
		return "Not provided"
	}
	return "+" + countryCode + " " + strings.TrimPrefix(n, "+"+countryCode)
}

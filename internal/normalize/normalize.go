// Package normalize canonicalizes submitted contact fields so that
// suppression matching and persisted rows always compare like with like.
package normalize

import "strings"

// Email trims whitespace and lowercases. Empty input stays empty.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Phone strips every non-digit rune. Empty input stays empty.
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// PhoneNational strips non-digits and drops a single leading country code
// "1" when the remainder is exactly national digits long. Digits beyond the
// national length are kept as-is: truncating would make two distinct long
// numbers collide during suppression matching.
func PhoneNational(raw string, national int) string {
	digits := Phone(raw)
	if national > 0 && len(digits) == national+1 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}

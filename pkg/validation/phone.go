package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialable numbers: optional leading +, then 10-15 digits. Spaces are
// stripped before matching so "+91 98765 43210" passes.
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidPhone reports whether phone looks like a dialable number.
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.ReplaceAll(phone, " ", ""))
}

// ValidatePhone returns a descriptive error for non-dialable numbers.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if !ValidPhone(phone) {
		return fmt.Errorf("invalid phone number, use E.164 format (e.g. +1234567890)")
	}
	return nil
}

// NormalizePhone strips spaces, dashes and parentheses from a phone number.
// It does not guess country codes; numbers without a + are left as-is.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	for _, r := range []string{" ", "-", "(", ")"} {
		phone = strings.ReplaceAll(phone, r, "")
	}
	return phone
}

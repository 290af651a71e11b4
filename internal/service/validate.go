package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/tmeduca/investigacion-portal/internal/model"
)

// ValidatePasswordPolicy enforces the portal's minimum password policy:
// at least 8 characters with at least one letter and one digit.
func ValidatePasswordPolicy(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", model.ErrValidation)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain at least one letter and one digit", model.ErrValidation)
	}
	return nil
}

// validEmail reports whether s parses as a bare email address.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// cleanRUT strips a RUT down to its digits and verification character,
// lowercased. Two renditions of the same RUT clean to the same string.
func cleanRUT(rut string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == 'k' || r == 'K' {
			return r
		}
		return -1
	}, rut))
}

// validRUT checks a Chilean RUT's mod-11 verification digit. Formatting
// characters (dots, dash) are ignored.
func validRUT(rut string) bool {
	clean := cleanRUT(rut)

	if len(clean) < 8 {
		return false
	}

	body := clean[:len(clean)-1]
	dv := strings.ToLower(clean[len(clean)-1:])

	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
		sum += int(body[i]-'0') * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	var expected string
	switch remainder := sum % 11; {
	case remainder < 2:
		expected = fmt.Sprintf("%d", remainder)
	case remainder == 10:
		expected = "k"
	default:
		expected = fmt.Sprintf("%d", 11-remainder)
	}

	return dv == expected
}

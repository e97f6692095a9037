package services

import (
	"errors"
	"unicode"
)

const MinPasswordLength = 8

var ErrWeakPassword = errors.New("weak password")

// ValidatePasswordStrength wants at least MinPasswordLength runes mixing
// letters and digits.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasLetter && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

// Package security issues one-off credentials for account maintenance.
package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Ambiguous glyphs (I, O, l, o, 0, 1) are left out so a password can be
	// read aloud or copied by hand.
	temporaryLetters = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"
	temporaryDigits  = "23456789"

	TemporaryPasswordAlphabet  = temporaryLetters + temporaryDigits
	MinTemporaryPasswordLength = 8
)

// TemporaryPassword returns a random password of at least
// MinTemporaryPasswordLength characters that always mixes letters and digits,
// so it passes the account password policy on the first draw.
func TemporaryPassword(length int) (string, error) {
	length = max(length, MinTemporaryPasswordLength)

	password := make([]byte, length)
	sources := []string{temporaryLetters, temporaryDigits}
	for index := range password {
		alphabet := TemporaryPasswordAlphabet
		if index < len(sources) {
			alphabet = sources[index]
		}
		char, err := pick(alphabet)
		if err != nil {
			return "", fmt.Errorf("draw password character: %w", err)
		}
		password[index] = char
	}

	// Fisher-Yates so the guaranteed letter and digit are not always first.
	for index := len(password) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", fmt.Errorf("shuffle password: %w", err)
		}
		password[index], password[swap] = password[swap], password[index]
	}
	return string(password), nil
}

func pick(alphabet string) (byte, error) {
	index, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[index], nil
}

func randomIndex(limit int) (int, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0, err
	}
	return int(position.Int64()), nil
}

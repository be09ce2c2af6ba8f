// Package password implements hashing and verification of user passwords.
//
// GetHash produces a bcrypt hash suitable for storage.
// CompareHash checks a stored hash against an entered password.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash takes a user password and returns its bcrypt hash.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash compares a stored bcrypt hash with the entered password.
// Returns nil when they match.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

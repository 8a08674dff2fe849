// Package auth hashes and verifies the daemon's API token.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 12

	// MinTokenLength keeps trivially guessable tokens out of configs.
	MinTokenLength = 12
)

// HashToken generates a bcrypt hash from a plain text API token.
func HashToken(token string) (string, error) {
	if len(token) < MinTokenLength {
		return "", fmt.Errorf("token must be at least %d characters long", MinTokenLength)
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckToken compares a plain text token with a stored hash.
func CheckToken(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

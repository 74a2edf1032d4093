package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the 10-round salt the rest of the platform uses.
const bcryptCost = 10

// ErrEmptyPassword is returned when a caller asks to hash a missing password.
var ErrEmptyPassword = errors.New("password is missing")

// HashPassword derives a salted one-way hash from a plaintext password.
// Each call generates a fresh salt, so equal inputs produce distinct hashes.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

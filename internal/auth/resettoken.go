package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// resetTokenBytes sizes the random reset token; 20 bytes encodes to a
// 40-character hex string handed to the user by email.
const resetTokenBytes = 20

// GenerateResetToken produces a one-time password-reset token. The plaintext
// goes to the user; only the hash and the expiration are ever persisted.
func GenerateResetToken(ttl time.Duration) (plain, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	plain = hex.EncodeToString(buf)
	return plain, HashResetToken(plain), time.Now().Add(ttl), nil
}

// HashResetToken maps a plaintext reset token to its stored form. Lookups
// hash the incoming token with the same function, so the plaintext never
// touches the database.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

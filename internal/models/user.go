package models

import "time"

// User captures an authenticated identity and its credential record.
// The password hash and reset-token fields never leave the backend; the
// json tags keep them out of every serialized response.
type User struct {
	ID                      int64      `json:"id"`
	Username                string     `json:"username"`
	Email                   string     `json:"email"`
	PasswordHash            string     `json:"-"`
	ResetPasswordTokenHash  *string    `json:"-"`
	ResetPasswordExpiration *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"created_at"`
}

// HasPendingReset reports whether a password-reset request is recorded.
// Both reset fields are set together and cleared together.
func (u User) HasPendingReset() bool {
	return u.ResetPasswordTokenHash != nil && u.ResetPasswordExpiration != nil
}

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/todo-auth-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth service.
// Username and email uniqueness is enforced by the store itself; callers may
// pre-check for a friendlier error message but must treat ErrAlreadyExists
// from CreateUser as the authoritative answer.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)

	// SetResetToken records a pending password reset on the user.
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// ClearResetToken removes a pending reset without touching the password.
	ClearResetToken(ctx context.Context, userID int64) error

	// FindByValidResetToken matches a stored token hash whose expiration is
	// strictly after now. Expired and unknown tokens both yield ErrNotFound.
	FindByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)

	// UpdatePassword stores a new password hash and clears both reset-token
	// fields in the same statement.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

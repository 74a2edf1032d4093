package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/todo-auth-be/internal/models"
	"github.com/hongminglow/todo-auth-be/internal/storage"
)

var userColumnNames = []string{
	"id", "username", "email", "password_hash",
	"reset_password_token_hash", "reset_password_expiration", "created_at",
}

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &Store{db: mock}, mock
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash)`)).
		WithArgs("alice", "a@x.com", "hashed").
		WillReturnRows(pgxmock.NewRows(userColumnNames).
			AddRow(int64(1), "alice", "a@x.com", "hashed", nil, nil, now))

	user, err := store.CreateUser(context.Background(), models.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hashed",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.HasPendingReset())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "a@x.com", "hashed").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := store.CreateUser(context.Background(), models.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hashed",
	})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsername_NotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByValidResetToken(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Now()
	hash := "tokenhash"
	expires := now.Add(5 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE reset_password_token_hash = $1 AND reset_password_expiration > $2`)).
		WithArgs(hash, now).
		WillReturnRows(pgxmock.NewRows(userColumnNames).
			AddRow(int64(7), "alice", "a@x.com", "hashed", &hash, &expires, now))

	user, err := store.FindByValidResetToken(context.Background(), hash, now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.True(t, user.HasPendingReset())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetResetToken(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	expires := time.Now().Add(10 * time.Minute)

	mock.ExpectExec(regexp.QuoteMeta(`SET reset_password_token_hash = $2, reset_password_expiration = $3`)).
		WithArgs(int64(1), "tokenhash", expires).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.SetResetToken(context.Background(), 1, "tokenhash", expires))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearResetToken_UnknownUser(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`SET reset_password_token_hash = NULL, reset_password_expiration = NULL`)).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.ClearResetToken(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword_ClearsResetFields(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	// A single statement swaps the hash and consumes the reset token.
	mock.ExpectExec(regexp.QuoteMeta(`SET password_hash = $2, reset_password_token_hash = NULL, reset_password_expiration = NULL`)).
		WithArgs(int64(1), "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.UpdatePassword(context.Background(), 1, "newhash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

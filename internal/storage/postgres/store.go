package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hongminglow/todo-auth-be/internal/models"
	"github.com/hongminglow/todo-auth-be/internal/storage"
	"github.com/hongminglow/todo-auth-be/internal/storage/postgres/migrations"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Querier is the subset of pgxpool.Pool the store uses. Tests substitute a
// pgxmock pool through this interface.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides Postgres-backed persistence for users.
type Store struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewUserStore connects to Postgres, applies pending migrations, and returns
// a ready store.
func NewUserStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrate(ctx, databaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{db: pool, pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// migrate applies the embedded goose migrations over a short-lived
// database/sql connection; the pgx stdlib driver shares the pool's DSN.
func migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

const userColumns = `id, username, email, password_hash, reset_password_token_hash, reset_password_expiration, created_at`

// CreateUser inserts a new user row. Unique-index violations on username or
// email map to storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (username, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING ` + userColumns + `;`
	row := s.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// FindByUsername fetches a user by username, password hash included.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	return scanUser(s.db.QueryRow(ctx, query, username))
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(s.db.QueryRow(ctx, query, email))
}

// SetResetToken records a pending password reset for the user.
func (s *Store) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	const query = `
	UPDATE users
	SET reset_password_token_hash = $2, reset_password_expiration = $3
	WHERE id = $1;`
	tag, err := s.db.Exec(ctx, query, userID, tokenHash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearResetToken removes any pending reset without touching the password.
func (s *Store) ClearResetToken(ctx context.Context, userID int64) error {
	const query = `
	UPDATE users
	SET reset_password_token_hash = NULL, reset_password_expiration = NULL
	WHERE id = $1;`
	tag, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindByValidResetToken matches a stored token hash that has not expired.
func (s *Store) FindByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error) {
	const query = `
	SELECT ` + userColumns + `
	FROM users
	WHERE reset_password_token_hash = $1 AND reset_password_expiration > $2;`
	return scanUser(s.db.QueryRow(ctx, query, tokenHash, now))
}

// UpdatePassword stores the new hash and consumes any pending reset token in
// a single statement.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	const query = `
	UPDATE users
	SET password_hash = $2, reset_password_token_hash = NULL, reset_password_expiration = NULL
	WHERE id = $1;`
	tag, err := s.db.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.ResetPasswordTokenHash,
		&user.ResetPasswordExpiration,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Package service contains the authentication use cases: register, login,
// current-user, forgot-password, and reset-password. Handlers stay thin; all
// credential and reset-token rules live here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/todo-auth-be/internal/auth"
	"github.com/hongminglow/todo-auth-be/internal/models"
	"github.com/hongminglow/todo-auth-be/internal/storage"
)

// Username and password constraints mirrored by the users table.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 12
	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// ResetMailer delivers a password-reset link to a user. Delivery failure is
// part of the forgot-password contract: the pending reset is rolled back.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// AuthService composes the credential store, hasher, token issuer, and
// mailer into the five authentication use cases.
type AuthService struct {
	store    storage.UserStore
	tokens   *auth.TokenManager
	mailer   ResetMailer
	resetTTL time.Duration
	baseURL  string
}

// NewAuthService constructs the service. baseURL is the public address the
// reset link points back at, without a trailing slash.
func NewAuthService(store storage.UserStore, tokens *auth.TokenManager, mailer ResetMailer, resetTTL time.Duration, baseURL string) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: resetTTL,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Register validates the credentials, creates the user, and issues a session
// token. Username and email uniqueness is pre-checked for a precise error
// message; the store's unique indexes remain the authoritative guard.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.User, string, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, "", badRequest("Please fill in all fields")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength || utf8.RuneCountInString(password) < MinPasswordLength {
		return models.User{}, "", badRequest("Username must be at least 3 characters and password must be at least 6 characters")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return models.User{}, "", badRequest("Username must be at most 12 characters")
	}
	if !emailPattern.MatchString(email) {
		return models.User{}, "", badRequest("Please add a valid email")
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return models.User{}, "", badRequest("Username already in use")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, "", badRequestErr("could not create user", err)
	}
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return models.User{}, "", badRequest("Email already in use")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, "", badRequestErr("could not create user", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", badRequestErr("could not create user", err)
	}

	user, err := s.store.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Lost the race against a concurrent registration.
			return models.User{}, "", badRequest("Username or email already in use")
		}
		return models.User{}, "", badRequestErr("could not create user", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Login verifies a username/password pair and issues a session token. The
// failure message is identical for an unknown username and a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	if username == "" || password == "" {
		return models.User{}, "", unauthorized("Please provide a username and password")
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, "", unauthorized("Invalid credentials")
		}
		return models.User{}, "", badRequestErr("could not log in", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, "", unauthorized("Invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// CurrentUser returns the record for an already-authenticated user ID. Token
// verification happens upstream in the auth middleware.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, notFound("User not found")
		}
		return models.User{}, serverError("could not fetch user", err)
	}
	return user, nil
}

// ForgotPassword records a one-time reset token for the user behind email
// and mails them the reset link. If delivery fails the pending reset is
// cleared again so the token cannot linger unsent.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("There is no user with that email")
		}
		return serverError("could not process reset request", err)
	}

	plain, hash, expiresAt, err := auth.GenerateResetToken(s.resetTTL)
	if err != nil {
		return serverError("could not process reset request", err)
	}
	if err := s.store.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return serverError("could not process reset request", err)
	}

	resetURL := fmt.Sprintf("%s/resetpassword?token=%s", s.baseURL, plain)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		if clearErr := s.store.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Printf("forgot password: clear reset token for user %d: %v", user.ID, clearErr)
		}
		return serverError("Email could not be sent", err)
	}
	return nil
}

// ResetPassword consumes a valid reset token, stores the new password, and
// issues a session token exactly as Login does. Expired, unknown, and
// already-consumed tokens are indistinguishable to the caller.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) (models.User, string, error) {
	user, err := s.store.FindByValidResetToken(ctx, auth.HashResetToken(plainToken), time.Now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, "", notFound("Invalid token")
		}
		return models.User{}, "", serverError("could not reset password", err)
	}

	// The new password must satisfy the same minimum as registration.
	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return models.User{}, "", badRequest("Password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return models.User{}, "", badRequest("Please fill out your password")
	}
	// UpdatePassword also clears the reset-token fields, making the token
	// single-use.
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return models.User{}, "", serverError("could not reset password", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) issueToken(user models.User) (string, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", serverError("could not issue token", err)
	}
	return token, nil
}

package auth

import (
	"testing"
	"time"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", "todo-auth-backend", time.Hour)

	tok, err := tm.Generate(42)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	userID, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID mismatch: got %d want 42", userID)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", "issuer", -1*time.Second)

	tok, err := tm.Generate(1)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if _, err := tm.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret", "issuer", time.Hour).Generate(2)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if _, err := NewTokenManager("wrong-secret", "issuer", time.Hour).Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenManager_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", "issuer", time.Hour)
	if _, err := tm.Parse("not.a.jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

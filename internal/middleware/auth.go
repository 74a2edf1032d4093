package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/todo-auth-be/internal/auth"
	"github.com/hongminglow/todo-auth-be/internal/http/respond"
)

type ctxKey int

const userIDKey ctxKey = iota

// TokenCookie is the HTTP-only cookie carrying the session token.
const TokenCookie = "token"

// RequireAuth verifies the session token from the cookie or a Bearer header
// and attaches the authenticated user ID to the request context.
func RequireAuth(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			respond.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		userID, err := tokens.Parse(raw)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user ID set by RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

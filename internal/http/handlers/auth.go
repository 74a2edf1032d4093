package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/hongminglow/todo-auth-be/internal/auth"
	"github.com/hongminglow/todo-auth-be/internal/http/respond"
	"github.com/hongminglow/todo-auth-be/internal/middleware"
	"github.com/hongminglow/todo-auth-be/internal/models/dto"
	"github.com/hongminglow/todo-auth-be/internal/service"
)

// AuthHandler owns the authentication endpoints: register, login, me,
// forgot-password, and reset-password.
type AuthHandler struct {
	svc    *service.AuthService
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *service.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/forgotpassword", h.handleForgotPassword)
	mux.HandleFunc("/resetpassword", h.handleResetPassword)
	mux.Handle("/me", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleMe)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	_, token, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.sendToken(w, token)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	_, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.sendToken(w, token)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond.Data(w, http.StatusOK, user)
}

func (h *AuthHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.respondServiceError(w, err)
		return
	}
	// The token itself travels only by email.
	respond.Data(w, http.StatusOK, "Email sent")
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	_, token, err := h.svc.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.sendToken(w, token)
}

// sendToken writes the uniform success response shared by register, login,
// and reset-password: the token in the body and in an HTTP-only cookie.
func (h *AuthHandler) sendToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respond.Token(w, http.StatusOK, token)
}

func (h *AuthHandler) respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.Printf("auth handler: unexpected error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if svcErr.Err != nil {
		log.Printf("auth handler: %v", svcErr)
	}
	respond.Error(w, statusForKind(svcErr.Kind), svcErr.Message)
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

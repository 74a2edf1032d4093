package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/todo-auth-be/internal/auth"
	"github.com/hongminglow/todo-auth-be/internal/config"
	"github.com/hongminglow/todo-auth-be/internal/http/handlers"
	"github.com/hongminglow/todo-auth-be/internal/middleware"
	"github.com/hongminglow/todo-auth-be/internal/service"
	"github.com/hongminglow/todo-auth-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore, mailer service.ResetMailer) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authService := service.NewAuthService(store, tokens, mailer, cfg.ResetTokenTTL, cfg.AppBaseURL)
	authHandler := handlers.NewAuthHandler(authService, tokens)
	authHandler.Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

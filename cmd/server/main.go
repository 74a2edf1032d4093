package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/todo-auth-be/internal/config"
	"github.com/hongminglow/todo-auth-be/internal/mail"
	"github.com/hongminglow/todo-auth-be/internal/server"
	"github.com/hongminglow/todo-auth-be/internal/service"
	"github.com/hongminglow/todo-auth-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	userStore, err := postgres.NewUserStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer userStore.Close()

	mailer, err := buildMailer(cfg)
	if err != nil {
		log.Fatalf("init mailer: %v", err)
	}

	srv := server.New(cfg, userStore, mailer)

	go func() {
		log.Printf("todo auth backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func buildMailer(cfg config.Config) (service.ResetMailer, error) {
	if !cfg.SMTPEnabled() {
		log.Println("SMTP_HOST not set; password reset links will be logged instead of emailed")
		return mail.LogMailer{}, nil
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}

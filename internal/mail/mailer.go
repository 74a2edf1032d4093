// Package mail delivers transactional email for the auth flows. The only
// message in scope is the password-reset link.
package mail

import (
	"context"
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"
)

const resetSubject = "Password reset token"

// SMTPConfig holds the settings for the outbound SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds a mailer for the given relay. Credentials are
// optional; without them the client connects unauthenticated.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// SendPasswordReset mails the reset link to the user.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"You requested a password reset. Follow the link below within its validity window to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this email.\n", resetURL))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogMailer writes the reset link to the process log instead of sending it.
// Used when no SMTP relay is configured, so local development works without
// a mail server.
type LogMailer struct{}

// SendPasswordReset logs the reset link.
func (LogMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	log.Printf("mail: password reset for %s: %s", to, resetURL)
	return nil
}

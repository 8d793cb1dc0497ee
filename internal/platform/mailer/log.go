package mailer

import (
	"context"
	"log/slog"
)

// LogMailer is the development fallback used when Resend is not configured.
// It logs the reset link instead of sending mail.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendPasswordResetEmail logs the reset link at INFO level.
func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetLink string) error {
	slog.Info("password reset email (log only)", "to", toEmail, "name", toName, "link", resetLink)
	return nil
}

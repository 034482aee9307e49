package di

import (
	"log/slog"

	"contacts_backend/internal/platform/config"
	"contacts_backend/internal/platform/mail"
)

// NewMailer creates an asynchronous mailer.
// It sends through SMTP when MAIL_SERVER is set and otherwise only logs the links.
func NewMailer(cfg config.Mail) *mail.AsyncMailer {
	if cfg.Server == "" {
		slog.Warn("MAIL_SERVER is not set. Emails will be logged, not sent.")
		return mail.NewAsyncMailer(mail.NewLogMailer(), mail.DefaultSendTimeout)
	}
	return mail.NewAsyncMailer(mail.NewSMTPMailer(cfg), mail.DefaultSendTimeout)
}

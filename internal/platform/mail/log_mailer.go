package mail

import (
	"context"
	"log/slog"
)

// LogMailer はメールを送らずにリンクをログへ出力します。SMTPが未設定の開発環境用です。
type LogMailer struct{}

// NewLogMailer はLogMailerを生成します。
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (LogMailer) SendConfirmation(ctx context.Context, email, confirmationURL string) error {
	slog.InfoContext(ctx, "confirmation email (not sent)", "email", email, "url", confirmationURL)
	return nil
}

func (LogMailer) SendReset(ctx context.Context, email, resetURL string) error {
	slog.InfoContext(ctx, "password reset email (not sent)", "email", email, "url", resetURL)
	return nil
}

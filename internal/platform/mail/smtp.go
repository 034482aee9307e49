package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"

	"contacts_backend/internal/platform/config"
)

// SMTPMailer は暗黙的TLS(SMTPS)でメールを送信します。
type SMTPMailer struct {
	cfg       config.Mail
	tlsConfig *tls.Config
	now       func() time.Time
}

// NewSMTPMailer はSMTPMailerを生成します。
func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	return &SMTPMailer{
		cfg:       cfg,
		tlsConfig: &tls.Config{ServerName: cfg.Server, MinVersion: tls.VersionTLS12},
		now:       time.Now,
	}
}

// SendConfirmation はメールアドレス確認リンクを送信します。
func (m *SMTPMailer) SendConfirmation(ctx context.Context, email, confirmationURL string) error {
	msg, err := ConfirmationMessage(email, confirmationURL)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

// SendReset はパスワード再設定リンクを送信します。
func (m *SMTPMailer) SendReset(ctx context.Context, email, resetURL string) error {
	msg, err := ResetMessage(email, resetURL)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

// clientOptions はgo-mailクライアントの設定を返します。
// ユーザー名が空ならSMTP認証は行いません。
func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithSSL(),
		gomail.WithTLSConfig(m.tlsConfig),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

func (m *SMTPMailer) send(ctx context.Context, message Message) error {
	msg, err := message.Msg(m.cfg.FromName, m.cfg.From, m.now())
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.cfg.Server, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	addr := net.JoinHostPort(m.cfg.Server, strconv.Itoa(m.cfg.Port))
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

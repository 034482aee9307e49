package mail

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"contacts_backend/internal/platform/config"
)

// closedPort は接続を受け付けないローカルポートを返します。
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestNewSMTPMailer_TLSConfig(t *testing.T) {
	m := NewSMTPMailer(config.Mail{Server: "smtp.example.com", Port: 465, From: "noreply@example.com", FromName: "Contacts API"})

	assert.Equal(t, "smtp.example.com", m.tlsConfig.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS12), m.tlsConfig.MinVersion)
}

// TestSMTPMailer_ClientOptions はユーザー名の有無で認証オプションが切り替わることを検証します。
func TestSMTPMailer_ClientOptions(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantLen  int
	}{
		{"anonymous", "", 3},
		{"plain auth", "mailer", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSMTPMailer(config.Mail{Server: "smtp.example.com", Port: 465, Username: tt.username, Password: "pw"})

			opts := m.clientOptions()
			assert.Len(t, opts, tt.wantLen)

			_, err := gomail.NewClient("smtp.example.com", opts...)
			assert.NoError(t, err)
		})
	}
}

func TestSMTPMailer_InvalidSender(t *testing.T) {
	m := NewSMTPMailer(config.Mail{Server: "127.0.0.1", Port: 465, From: "not an address"})

	err := m.SendConfirmation(context.Background(), "alice@example.com", "http://localhost/confirm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender")
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	port := closedPort(t)
	m := NewSMTPMailer(config.Mail{Server: "127.0.0.1", Port: port, From: "noreply@example.com"})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.SendReset(ctx, "alice@example.com", "http://localhost/reset-password?token=x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send mail via 127.0.0.1:"+strconv.Itoa(port))
}

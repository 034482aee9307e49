// Package mail はアカウント確認・パスワード再設定メールの送信を提供します。
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Message は送信前のメール1通です。
type Message struct {
	To      string
	Subject string
	HTML    string
}

var (
	confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Email}},</p>
<p>Thanks for registering with Contacts API. Please confirm your email address:</p>
<p><a href="{{.URL}}">Confirm email</a></p>
<p>The link expires in 7 days.</p>
</body>
</html>
`))

	resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Email}},</p>
<p>We received a request to reset your password. Follow the link below to choose a new one:</p>
<p><a href="{{.URL}}">Reset password</a></p>
<p>The link expires in 1 hour. If you did not request a reset, you can ignore this email.</p>
</body>
</html>
`))
)

type templateData struct {
	Email string
	URL   string
}

// ConfirmationMessage はメールアドレス確認メールを組み立てます。
func ConfirmationMessage(email, confirmationURL string) (Message, error) {
	return render(confirmationTemplate, "Confirm your email", email, confirmationURL)
}

// ResetMessage はパスワード再設定メールを組み立てます。
func ResetMessage(email, resetURL string) (Message, error) {
	return render(resetTemplate, "Password Reset Request", email, resetURL)
}

func render(tmpl *template.Template, subject, email, link string) (Message, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Email: email, URL: link}); err != nil {
		return Message{}, fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return Message{To: email, Subject: subject, HTML: buf.String()}, nil
}

// Msg は送信用のメッセージを組み立てます。
// ヘッダーのエンコード、Message-IDの付与、本文の行長はgo-mailに任せます。
func (m Message) Msg(fromName, fromAddr string, now time.Time) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(fromName, fromAddr); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", fromAddr, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetDateWithValue(now)
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextHTML, m.HTML)
	return msg, nil
}

package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSendTimeout は1通の送信にかける最大時間です。
const DefaultSendTimeout = 30 * time.Second

// Sender はAsyncMailerが包む同期的な送信者です。
type Sender interface {
	SendConfirmation(ctx context.Context, email, confirmationURL string) error
	SendReset(ctx context.Context, email, resetURL string) error
}

// AsyncMailer は送信をゴルーチンで実行し、呼び出し元を待たせません。
// 送信はリクエストのキャンセルから切り離され、失敗はログに記録されます。
type AsyncMailer struct {
	next    Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncMailer はnextを非同期化したAsyncMailerを生成します。
// timeoutが0以下ならDefaultSendTimeoutを使います。
func NewAsyncMailer(next Sender, timeout time.Duration) *AsyncMailer {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &AsyncMailer{next: next, timeout: timeout}
}

// SendConfirmation は確認メールの送信を開始し、すぐにnilを返します。
func (m *AsyncMailer) SendConfirmation(ctx context.Context, email, confirmationURL string) error {
	m.dispatch(ctx, "confirmation", email, func(ctx context.Context) error {
		return m.next.SendConfirmation(ctx, email, confirmationURL)
	})
	return nil
}

// SendReset はパスワード再設定メールの送信を開始し、すぐにnilを返します。
func (m *AsyncMailer) SendReset(ctx context.Context, email, resetURL string) error {
	m.dispatch(ctx, "reset", email, func(ctx context.Context) error {
		return m.next.SendReset(ctx, email, resetURL)
	})
	return nil
}

func (m *AsyncMailer) dispatch(ctx context.Context, kind, email string, send func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()
		if err := send(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to send email", "kind", kind, "email", email, "error", err)
		}
	}()
}

// Wait は送信中のメールがすべて終わるまで待ちます。ctxが先に終わった場合はctx.Err()を返します。
func (m *AsyncMailer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

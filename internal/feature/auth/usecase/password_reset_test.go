package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// resetTokenFromLink extracts the token query parameter from a reset link.
func resetTokenFromLink(t *testing.T, link string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(link, testBaseURL+"/reset-password?token="), link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestAuthUsecase_RequestPasswordReset(t *testing.T) {
	t.Run("existing user receives a reset link", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.seed(t, "alice@example.com", "password123", true)

		env.uc.RequestPasswordReset(context.Background(), "alice@example.com")

		mail := env.mailer.last(t)
		assert.Equal(t, "reset", mail.kind)
		assert.Equal(t, "alice@example.com", mail.email)
		claims, err := env.codec.Decode(resetTokenFromLink(t, mail.link), entity.TokenKindReset)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Subject)
	})

	t.Run("unknown user gets nothing", func(t *testing.T) {
		env := newTestEnv(t)

		env.uc.RequestPasswordReset(context.Background(), "ghost@example.com")

		assert.Empty(t, env.mailer.sent)
	})

	t.Run("lookup failure is swallowed", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.findErr = errors.New("connection refused")

		assert.NotPanics(t, func() {
			env.uc.RequestPasswordReset(context.Background(), "alice@example.com")
		})
		assert.Empty(t, env.mailer.sent)
	})
}

func TestAuthUsecase_ResetPassword(t *testing.T) {
	t.Run("reset changes the password and invalidates the cache", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.users.seed(t, "alice@example.com", "password123", true)

		// Warm the cache through a normal resolve.
		pair, err := env.uc.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		_, err = env.uc.ResolveCurrentUser(ctx, pair.AccessToken)
		require.NoError(t, err)
		_, ok := env.cache.Get(ctx, "alice@example.com")
		require.True(t, ok)

		env.uc.RequestPasswordReset(ctx, "alice@example.com")
		token := resetTokenFromLink(t, env.mailer.last(t).link)

		require.NoError(t, env.uc.ResetPassword(ctx, token, "new-password"))

		_, ok = env.cache.Get(ctx, "alice@example.com")
		assert.False(t, ok, "cached snapshot must not survive a password reset")

		_, err = env.uc.Login(ctx, "alice@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = env.uc.Login(ctx, "alice@example.com", "new-password")
		assert.NoError(t, err)

		calls := env.users.findCalls
		_, err = env.uc.ResolveCurrentUser(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Greater(t, env.users.findCalls, calls, "resolve after reset must read the directory")
	})

	t.Run("invalid token", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.uc.ResetPassword(context.Background(), "garbage", "new-password")

		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("confirmation token cannot reset a password", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.seed(t, "alice@example.com", "password123", true)
		token, err := env.codec.Issue(entity.TokenKindConfirmation, "alice@example.com")
		require.NoError(t, err)

		err = env.uc.ResetPassword(context.Background(), token, "new-password")

		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("user not found", func(t *testing.T) {
		env := newTestEnv(t)
		token, err := env.codec.Issue(entity.TokenKindReset, "ghost@example.com")
		require.NoError(t, err)

		err = env.uc.ResetPassword(context.Background(), token, "new-password")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("short password", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.seed(t, "alice@example.com", "password123", true)
		token, err := env.codec.Issue(entity.TokenKindReset, "alice@example.com")
		require.NoError(t, err)

		err = env.uc.ResetPassword(context.Background(), token, "short")

		assert.ErrorIs(t, err, ErrInvalidPassword)
		assert.Empty(t, env.cache.invalidated)
	})
}

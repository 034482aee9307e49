package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// RequestPasswordReset emails a reset link if email belongs to a user.
// It has no result: the outcome must look identical whether or not the account exists.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.ErrorContext(ctx, "password reset lookup failed", "error", err)
		}
		return
	}

	token, err := u.tokens.Issue(entity.TokenKindReset, user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue reset token", "error", err, "email", user.Email)
		return
	}
	link := u.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := u.mailer.SendReset(ctx, user.Email, link); err != nil {
		slog.ErrorContext(ctx, "failed to send reset email", "error", err, "email", user.Email)
	}
}

// ResetPassword sets a new password for the account named by a reset token
// and drops its cached identity. It does not log the user in.
func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := u.tokens.Decode(token, entity.TokenKindReset)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	user, err := u.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, user.Email, hashed); err != nil {
		return err
	}
	u.cache.Invalidate(ctx, user.Email)

	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// ConfirmationStatus is the successful outcome of ConfirmEmail.
type ConfirmationStatus int

const (
	// ConfirmationConfirmed means the account was confirmed by this call.
	ConfirmationConfirmed ConfirmationStatus = iota + 1
	// ConfirmationAlreadyConfirmed means the account had been confirmed before; nothing changed.
	ConfirmationAlreadyConfirmed
)

// ConfirmEmail marks the account named by a confirmation token as confirmed.
// Confirming an already confirmed account succeeds without writing.
func (u *authUsecase) ConfirmEmail(ctx context.Context, token string) (ConfirmationStatus, error) {
	claims, err := u.tokens.Decode(token, entity.TokenKindConfirmation)
	if err != nil {
		return 0, ErrVerificationFailed
	}

	user, err := u.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, ErrVerificationFailed
		}
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Confirmed {
		return ConfirmationAlreadyConfirmed, nil
	}

	if err := u.users.MarkConfirmed(ctx, user.Email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, ErrVerificationFailed
		}
		return 0, fmt.Errorf("failed to confirm user: %w", err)
	}
	u.cache.Invalidate(ctx, user.Email)

	return ConfirmationConfirmed, nil
}

// RequestEmailConfirmation re-sends the confirmation link.
// Unknown and already confirmed addresses are ignored silently so the caller
// learns nothing about which emails are registered.
func (u *authUsecase) RequestEmailConfirmation(ctx context.Context, email string) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.ErrorContext(ctx, "confirmation request lookup failed", "error", err)
		}
		return
	}
	if user.Confirmed {
		return
	}
	u.sendConfirmation(ctx, user.Email)
}

// sendConfirmation issues a confirmation token and hands the link to the mailer.
// Failures are logged; the caller's outcome does not depend on email delivery.
func (u *authUsecase) sendConfirmation(ctx context.Context, email string) {
	token, err := u.tokens.Issue(entity.TokenKindConfirmation, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue confirmation token", "error", err, "email", email)
		return
	}
	link := u.baseURL + "/api/auth/confirmed_email/" + token
	if err := u.mailer.SendConfirmation(ctx, email, link); err != nil {
		slog.ErrorContext(ctx, "failed to send confirmation email", "error", err, "email", email)
	}
}

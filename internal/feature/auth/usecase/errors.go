// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials covers bad email/password pairs and unusable access or refresh tokens.
	// The message is generic so callers cannot tell which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailNotConfirmed is returned by Login for a correct password on an unconfirmed account.
	ErrEmailNotConfirmed = errors.New("email not confirmed")

	// ErrVerificationFailed is returned when a confirmation token is unusable or names no user.
	ErrVerificationFailed = errors.New("verification error")

	// ErrInvalidOrExpiredToken is returned when a password reset token is unusable.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrInvalidPassword is returned when a new password does not meet the length requirement.
	ErrInvalidPassword = errors.New("invalid password")
)

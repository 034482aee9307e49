package entity

import "time"

// TokenKind identifies what a signed token may be used for.
type TokenKind string

const (
	// TokenKindAccess authorizes individual requests.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is only accepted to mint a new token pair.
	TokenKindRefresh TokenKind = "refresh"
	// TokenKindConfirmation is only accepted by the email confirmation flow.
	TokenKindConfirmation TokenKind = "confirmation"
	// TokenKindReset is only accepted by the password reset flow.
	TokenKindReset TokenKind = "reset"
)

// Claims is the decoded payload of a signed token.
type Claims struct {
	ID        string
	Subject   string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime.
	ExpiresIn time.Duration
}

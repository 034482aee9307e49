// Package jwtmw issues and verifies signed session tokens and provides the Gin bearer guard.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// Fixed lifetimes of the single-purpose tokens. They do not follow the access/refresh settings.
const (
	ConfirmationTokenTTL = 7 * 24 * time.Hour
	ResetTokenTTL        = time.Hour
)

var (
	// ErrInvalidToken is returned for any token that fails verification.
	// Tampering, expiry, malformed input and kind mismatch are deliberately not distinguished.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnsupportedAlgorithm is returned when the configured algorithm is not an HMAC method.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrEmptySecret is returned when no signing secret is configured.
	ErrEmptySecret = errors.New("signing secret is empty")
)

// tokenClaims is the JWT payload. Kind pins a token to the flow it was issued for.
type tokenClaims struct {
	jwt.RegisteredClaims
	Kind entity.TokenKind `json:"kind"`
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// Codec signs and verifies tokens for every token kind with a single HMAC secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttls   map[entity.TokenKind]time.Duration
	now    func() time.Time
}

// NewCodec creates a Codec for the given secret and HMAC algorithm (HS256, HS384 or HS512).
// An empty algorithm selects HS256.
func NewCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	c := &Codec{
		secret: []byte(secret),
		method: method,
		ttls: map[entity.TokenKind]time.Duration{
			entity.TokenKindAccess:       accessTTL,
			entity.TokenKindRefresh:      refreshTTL,
			entity.TokenKindConfirmation: ConfirmationTokenTTL,
			entity.TokenKindReset:        ResetTokenTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of tokens of the given kind, or zero for an unknown kind.
func (c *Codec) TTL(kind entity.TokenKind) time.Duration {
	return c.ttls[kind]
}

// Issue creates a signed token of the given kind for subject.
func (c *Codec) Issue(kind entity.TokenKind, subject string) (string, error) {
	ttl, ok := c.ttls[kind]
	if !ok || ttl <= 0 {
		return "", fmt.Errorf("no lifetime configured for token kind %q", kind)
	}

	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
		},
		Kind: kind,
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ceilSecond rounds t up to a whole second.
// NumericDate truncates, which would end a token before now+ttl.
func ceilSecond(t time.Time) time.Time {
	if s := t.Truncate(time.Second); !s.Equal(t) {
		return s.Add(time.Second)
	}
	return t
}

// Decode verifies tokenStr and returns its claims.
// The token must be signed with the configured algorithm, carry a subject,
// be unexpired and have been issued for kind.
func (c *Codec) Decode(tokenStr string, kind entity.TokenKind) (*entity.Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	// exp is exclusive: a token is dead at the instant it expires.
	if !c.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}

	out := &entity.Claims{
		ID:        claims.ID,
		Subject:   claims.Subject,
		Kind:      claims.Kind,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

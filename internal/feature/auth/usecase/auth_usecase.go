package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength defines the minimum number of characters in a password.
	minPasswordLength = 6

	// dummyPasswordHash is compared against when the user does not exist,
	// so that login takes the same time whether or not the email is registered.
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user to the storage.
	// It returns ErrEmailAlreadyExists if a user with the same email already exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user matching the specified email address.
	// It returns ErrUserNotFound if the user does not exist.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// MarkConfirmed sets the confirmed flag of the user with the given email.
	MarkConfirmed(ctx context.Context, email string) error

	// UpdatePassword replaces the password digest of the user with the given email.
	UpdatePassword(ctx context.Context, email, passwordHash string) error

	// UpdateAvatar replaces the avatar URL and returns the updated user.
	UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.User, error)
}

// TokenCodec issues and verifies signed tokens.
type TokenCodec interface {
	// Issue creates a signed token of the given kind bound to subject.
	Issue(kind entity.TokenKind, subject string) (string, error)
	// Decode verifies a token and checks that it was issued for kind.
	Decode(token string, kind entity.TokenKind) (*entity.Claims, error)
	// TTL returns the lifetime of tokens of the given kind.
	TTL(kind entity.TokenKind) time.Duration
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether digest was produced from password. It never fails on a malformed digest.
	Verify(password, digest string) bool
}

// IdentityCache is a short-lived store of resolved identities keyed by email.
// Implementations swallow backend failures: a broken cache behaves like an empty one.
type IdentityCache interface {
	Get(ctx context.Context, email string) (*entity.Identity, bool)
	Put(ctx context.Context, identity *entity.Identity)
	Invalidate(ctx context.Context, email string)
}

// Mailer delivers account emails. Callers do not wait for delivery to complete.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, confirmationURL string) error
	SendReset(ctx context.Context, email, resetURL string) error
}

// authUsecase implements the authentication and session business logic.
type authUsecase struct {
	users   UserRepository
	tokens  TokenCodec
	hasher  PasswordHasher
	cache   IdentityCache
	mailer  Mailer
	baseURL string
}

// NewAuthUsecase creates a new authUsecase instance.
// baseURL is the public address used to build links in confirmation and reset emails.
func NewAuthUsecase(users UserRepository, tokens TokenCodec, hasher PasswordHasher,
	cache IdentityCache, mailer Mailer, baseURL string) *authUsecase {
	return &authUsecase{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		cache:   cache,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// validatePassword checks if the password meets security requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrInvalidPassword, minPasswordLength)
	}
	return nil
}

// Signup registers a new, unconfirmed user and emails a confirmation link.
func (u *authUsecase) Signup(ctx context.Context, email, password string) (*entity.Identity, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Email: email, Password: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// The account exists at this point; a lost email can be re-requested.
	u.sendConfirmation(ctx, user.Email)
	return user.Identity(), nil
}

// Login authenticates a user and returns a fresh access/refresh token pair.
// A bcrypt comparison runs even when the user does not exist to prevent timing attacks.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.Password
	}
	verified := u.hasher.Verify(password, passwordHash)

	if err != nil || !verified {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}

	return u.issuePair(user.Email)
}

// Refresh exchanges a refresh token for a new token pair.
// The user is read from the directory, not the cache, so deleted accounts cannot refresh.
// Previously issued access tokens stay valid until they expire.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	claims, err := u.tokens.Decode(refreshToken, entity.TokenKindRefresh)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := u.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return u.issuePair(user.Email)
}

// ResolveCurrentUser returns the identity behind an access token,
// consulting the identity cache before the directory.
func (u *authUsecase) ResolveCurrentUser(ctx context.Context, accessToken string) (*entity.Identity, error) {
	claims, err := u.tokens.Decode(accessToken, entity.TokenKindAccess)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if identity, ok := u.cache.Get(ctx, claims.Subject); ok {
		return identity, nil
	}

	user, err := u.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	identity := user.Identity()
	u.cache.Put(ctx, identity)
	return identity, nil
}

// issuePair issues an access token and a refresh token for subject.
func (u *authUsecase) issuePair(subject string) (*entity.TokenPair, error) {
	access, err := u.tokens.Issue(entity.TokenKindAccess, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := u.tokens.Issue(entity.TokenKindRefresh, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &entity.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    u.tokens.TTL(entity.TokenKindAccess),
	}, nil
}

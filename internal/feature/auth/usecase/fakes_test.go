package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"contacts_backend/internal/feature/auth/domain/entity"
	jwtmw "contacts_backend/internal/platform/jwt"
	"contacts_backend/internal/platform/password"
)

// memUserRepository is an in-memory UserRepository.
// The *Err fields make the corresponding method fail.
type memUserRepository struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID uint

	findErr   error
	createErr error
	updateErr error

	findCalls int
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: map[string]*entity.User{}}
}

func (r *memUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[user.Email]; ok {
		return ErrEmailAlreadyExists
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.Email] = &stored
	return nil
}

func (r *memUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUserRepository) MarkConfirmed(ctx context.Context, email string) error {
	return r.update(email, func(u *entity.User) { u.Confirmed = true })
}

func (r *memUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.update(email, func(u *entity.User) { u.Password = passwordHash })
}

func (r *memUserRepository) UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.User, error) {
	if err := r.update(email, func(u *entity.User) { u.AvatarURL = &avatarURL }); err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, email)
}

func (r *memUserRepository) update(email string, fn func(u *entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[email]
	if !ok {
		return ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

// seed stores a user with the given password and confirmation state.
func (r *memUserRepository) seed(t *testing.T, email, plain string, confirmed bool) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Email: email, Password: string(hashed), Confirmed: confirmed}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

// memIdentityCache is an in-memory IdentityCache that records invalidations.
type memIdentityCache struct {
	mu          sync.Mutex
	entries     map[string]entity.Identity
	invalidated []string
}

func newMemIdentityCache() *memIdentityCache {
	return &memIdentityCache{entries: map[string]entity.Identity{}}
}

func (c *memIdentityCache) Get(ctx context.Context, email string) (*entity.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[email]
	if !ok {
		return nil, false
	}
	return &id, true
}

func (c *memIdentityCache) Put(ctx context.Context, identity *entity.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[identity.Email] = *identity
}

func (c *memIdentityCache) Invalidate(ctx context.Context, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, email)
	c.invalidated = append(c.invalidated, email)
}

// sentMail is one message captured by recordingMailer.
type sentMail struct {
	kind  string
	email string
	link  string
}

// recordingMailer captures outgoing mail instead of sending it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendConfirmation(ctx context.Context, email, confirmationURL string) error {
	return m.record("confirmation", email, confirmationURL)
}

func (m *recordingMailer) SendReset(ctx context.Context, email, resetURL string) error {
	return m.record("reset", email, resetURL)
}

func (m *recordingMailer) record(kind, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, email: email, link: link})
	return m.err
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail was sent")
	return m.sent[len(m.sent)-1]
}

// mockTokenCodec wraps a real codec and lets a test force Issue to fail.
type mockTokenCodec struct {
	TokenCodec
	IssueFunc func(kind entity.TokenKind, subject string) (string, error)
}

func (m *mockTokenCodec) Issue(kind entity.TokenKind, subject string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(kind, subject)
	}
	return m.TokenCodec.Issue(kind, subject)
}

const testBaseURL = "http://localhost:8080"

// testEnv bundles an authUsecase with its collaborators.
type testEnv struct {
	uc     *authUsecase
	users  *memUserRepository
	cache  *memIdentityCache
	mailer *recordingMailer
	codec  *jwtmw.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	codec, err := jwtmw.NewCodec("test-secret", "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		users:  newMemUserRepository(),
		cache:  newMemIdentityCache(),
		mailer: &recordingMailer{},
		codec:  codec,
	}
	env.uc = NewAuthUsecase(env.users, codec, password.NewBcryptHasher(bcrypt.MinCost), env.cache, env.mailer, testBaseURL+"/")
	return env
}

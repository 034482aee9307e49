// Package cache provides the Redis-backed identity cache used by the auth feature.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"contacts_backend/internal/feature/auth/domain/entity"
	"contacts_backend/internal/feature/auth/usecase"
	"contacts_backend/internal/platform/metrics"
)

const (
	// DefaultTTL is how long a resolved identity stays cached.
	DefaultTTL = 900 * time.Second

	// DefaultNamespace prefixes every cache key, giving "user:<email>".
	DefaultNamespace = "user"

	// snapshotVersion is bumped whenever identitySnapshot changes shape.
	// Entries with another version are treated as misses.
	snapshotVersion = 1
)

// identitySnapshot is the cached wire format. It only holds the fields needed to
// answer an authenticated request; the password digest never leaves the directory.
type identitySnapshot struct {
	Version   int     `json:"v"`
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	Confirmed bool    `json:"confirmed"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// IdentityCache caches resolved identities in Redis keyed by email.
// Backend failures are logged and degrade to cache misses; they are never returned.
type IdentityCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	metrics   *metrics.CacheMetrics
}

// IdentityCacheがusecase.IdentityCacheを実装していることをコンパイル時に検証します。
var _ usecase.IdentityCache = (*IdentityCache)(nil)

// NewIdentityCache creates an IdentityCache.
// If ttl is 0, it defaults to 900 seconds. If namespace is empty, it uses "user".
// A nil rdb disables caching; m may be nil.
func NewIdentityCache(rdb *redis.Client, ttl time.Duration, namespace string, m *metrics.CacheMetrics) *IdentityCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &IdentityCache{
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		metrics:   m,
	}
}

// Get returns the cached identity for email.
// Absent, corrupt and unreadable entries all report a miss.
func (c *IdentityCache) Get(ctx context.Context, email string) (*entity.Identity, bool) {
	if c.rdb == nil {
		c.miss()
		return nil, false
	}

	key := c.cacheKey(email)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.fail("get", email, err)
		}
		c.miss()
		return nil, false
	}

	var snap identitySnapshot
	if err := json.Unmarshal(b, &snap); err != nil || snap.Version != snapshotVersion || snap.Email != email {
		// Delete corrupted cache entry
		slog.Warn("discarding unreadable identity cache entry", "key", key, "error", err)
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			c.fail("del", email, err)
		}
		c.miss()
		return nil, false
	}

	c.hit()
	return &entity.Identity{
		ID:        snap.ID,
		Email:     snap.Email,
		Confirmed: snap.Confirmed,
		AvatarURL: snap.AvatarURL,
	}, true
}

// Put stores identity, overwriting any existing entry.
func (c *IdentityCache) Put(ctx context.Context, identity *entity.Identity) {
	if c.rdb == nil || identity == nil {
		return
	}

	b, err := json.Marshal(identitySnapshot{
		Version:   snapshotVersion,
		ID:        identity.ID,
		Email:     identity.Email,
		Confirmed: identity.Confirmed,
		AvatarURL: identity.AvatarURL,
	})
	if err != nil {
		c.fail("set", identity.Email, err)
		return
	}
	if err := c.rdb.Set(ctx, c.cacheKey(identity.Email), b, c.ttl).Err(); err != nil {
		c.fail("set", identity.Email, err)
	}
}

// Invalidate removes the entry for email. Removing an absent entry is a no-op.
func (c *IdentityCache) Invalidate(ctx context.Context, email string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.cacheKey(email)).Err(); err != nil {
		c.fail("del", email, err)
	}
}

// cacheKey generates the cache key for an email.
func (c *IdentityCache) cacheKey(email string) string {
	return c.namespace + ":" + email
}

func (c *IdentityCache) hit() {
	if c.metrics != nil {
		c.metrics.Hits.Inc()
	}
}

func (c *IdentityCache) miss() {
	if c.metrics != nil {
		c.metrics.Misses.Inc()
	}
}

func (c *IdentityCache) fail(op, email string, err error) {
	slog.Warn("identity cache unavailable", "op", op, "email", email, "error", err)
	if c.metrics != nil {
		c.metrics.Errors.WithLabelValues(op).Inc()
	}
}

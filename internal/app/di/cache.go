// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"contacts_backend/internal/feature/auth/usecase"
	"contacts_backend/internal/platform/cache"
	"contacts_backend/internal/platform/config"
	"contacts_backend/internal/platform/metrics"
)

// NewIdentityCache creates the IdentityCache used by the auth usecase.
// If Redis is unavailable (rdb == nil), the returned cache misses on every lookup
// and the usecase falls back to the database.
func NewIdentityCache(rdb *redis.Client, cfg config.Redis, m *metrics.CacheMetrics) usecase.IdentityCache {
	return cache.NewIdentityCache(rdb, cfg.CacheTTL, cache.DefaultNamespace, m)
}

// Package redis はIdentityキャッシュ用のRedisクライアントを生成します。
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"contacts_backend/internal/platform/config"
)

const (
	pingRetries  = 2
	pingInterval = time.Second
)

// NewRedisClient はRedisへ接続し、PINGが通ることを確認してから返します。
// PINGが数回失敗した場合はクライアントを閉じてエラーを返します。呼び出し側はキャッシュなしで起動できます。
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	backoff := retry.WithMaxRetries(pingRetries, retry.NewConstant(pingInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.InfoContext(ctx, "Redis connection successful", "address", cfg.Addr(), "db", cfg.DB)
	return rdb, nil
}

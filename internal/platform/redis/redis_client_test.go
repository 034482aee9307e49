package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts_backend/internal/platform/config"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("connects to a live server", func(t *testing.T) {
		mr := miniredis.RunT(t)

		rdb, err := NewRedisClient(context.Background(), config.Redis{Host: mr.Host(), Port: mr.Port(), DB: 1})

		require.NoError(t, err)
		t.Cleanup(func() { _ = rdb.Close() })
		assert.Equal(t, 1, rdb.Options().DB)
		require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
		mr.Select(1)
		assert.True(t, mr.Exists("k"), "key must be written to the configured DB")
	})

	t.Run("fails when the server is down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port := mr.Host(), mr.Port()
		mr.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rdb, err := NewRedisClient(ctx, config.Redis{Host: host, Port: port})

		assert.Error(t, err)
		assert.Nil(t, rdb)
	})

	t.Run("wrong password", func(t *testing.T) {
		mr := miniredis.RunT(t)
		mr.RequireAuth("secret")

		rdb, err := NewRedisClient(context.Background(), config.Redis{Host: mr.Host(), Port: mr.Port(), Password: "nope"})

		assert.Error(t, err)
		assert.Nil(t, rdb)
	})
}

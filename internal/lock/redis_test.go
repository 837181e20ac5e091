package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedis(client, RedisOptions{
		Prefix:     "test:",
		Expiry:     5 * time.Second,
		Tries:      2,
		RetryDelay: 10 * time.Millisecond,
	})
}

func TestRedis_AcquireRelease(t *testing.T) {
	mr, l := setupTestRedis(t)

	release, err := l.Acquire(context.Background(), "w2", "w1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:w1"))
	assert.True(t, mr.Exists("test:w2"))

	release()
	assert.False(t, mr.Exists("test:w1"))
	assert.False(t, mr.Exists("test:w2"))
}

func TestRedis_Contention(t *testing.T) {
	mr, l := setupTestRedis(t)

	release, err := l.Acquire(context.Background(), "w1")
	require.NoError(t, err)

	_, err = l.Acquire(context.Background(), "w0", "w1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAcquired))
	assert.False(t, mr.Exists("test:w0"), "keys taken before the failure must be released")

	release()

	again, err := l.Acquire(context.Background(), "w1")
	require.NoError(t, err)
	again()
}

func TestNewRedis_Defaults(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedis(client, RedisOptions{Prefix: "p:"})
	def := DefaultRedisOptions()
	assert.Equal(t, def.Expiry, l.opts.Expiry)
	assert.Equal(t, def.Tries, l.opts.Tries)
	assert.Equal(t, def.RetryDelay, l.opts.RetryDelay)
}

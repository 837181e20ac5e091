package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/logger"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisOptions tunes the distributed locker.
type RedisOptions struct {
	// Prefix namespaces lock keys in Redis.
	Prefix string
	// Expiry bounds how long a crashed holder can block a wallet.
	Expiry time.Duration
	// Tries is the number of attempts per key before giving up.
	Tries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// DefaultRedisOptions returns options suited to short ledger operations.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:     "fintrack:lock:wallet:",
		Expiry:     10 * time.Second,
		Tries:      32,
		RetryDelay: 50 * time.Millisecond,
	}
}

// Redis is a Locker shared by every API instance pointed at the same Redis.
type Redis struct {
	rs   *redsync.Redsync
	opts RedisOptions
}

// NewRedis creates a redsync-backed locker over client.
func NewRedis(client redis.UniversalClient, opts RedisOptions) *Redis {
	def := DefaultRedisOptions()
	if opts.Expiry <= 0 {
		opts.Expiry = def.Expiry
	}
	if opts.Tries < 1 {
		opts.Tries = def.Tries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	return &Redis{
		rs:   redsync.New(goredis.NewPool(client)),
		opts: opts,
	}
}

// Acquire implements Locker.
func (r *Redis) Acquire(ctx context.Context, keys ...string) (Release, error) {
	keys = normalize(keys)
	held := make([]*redsync.Mutex, 0, len(keys))

	for _, k := range keys {
		m := r.rs.NewMutex(r.opts.Prefix+k,
			redsync.WithExpiry(r.opts.Expiry),
			redsync.WithTries(r.opts.Tries),
			redsync.WithRetryDelay(r.opts.RetryDelay),
		)
		if err := m.LockContext(ctx); err != nil {
			unlockAll(held)
			return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, k, err)
		}
		held = append(held, m)
	}

	var once sync.Once
	return func() {
		once.Do(func() { unlockAll(held) })
	}, nil
}

func unlockAll(held []*redsync.Mutex) {
	// Unlock must run even when the request context is already done.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(held) - 1; i >= 0; i-- {
		if ok, err := held[i].UnlockContext(ctx); !ok || err != nil {
			logger.Get().Warnw("failed to release wallet lock", "key", held[i].Name(), "error", err)
		}
	}
}

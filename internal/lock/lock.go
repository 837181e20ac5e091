// Package lock serialises balance mutations per wallet. Callers acquire every
// wallet an operation touches in one call; keys are taken in sorted order so two
// operations over the same pair of wallets can never deadlock.
package lock

import (
	"context"
	"errors"
	"sort"
)

// ErrNotAcquired is returned when a key could not be locked before the context
// ended or the retry budget ran out.
var ErrNotAcquired = errors.New("lock: not acquired")

// Release unlocks everything taken by one Acquire call. It is safe to call more than once.
type Release func()

// Locker acquires a set of keys atomically from the caller's point of view.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

// normalize sorts keys and drops duplicates and empty strings.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)

	uniq := out[:0]
	for i, k := range out {
		if i == 0 || k != out[i-1] {
			uniq = append(uniq, k)
		}
	}
	return uniq
}

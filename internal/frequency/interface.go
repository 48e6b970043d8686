package frequency

import (
	"context"
	"time"
)

// Store is an atomic counter/existence store keyed by string.
type Store interface {
	// TryReserve sets key with the given ttl if it is absent and reports
	// whether it did so.
	TryReserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Increment bumps the counter for key, starting a new window of the given
	// length on the first increment, and returns the post-increment count.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, isNewWindow bool, err error)
}

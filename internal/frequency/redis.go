package frequency

import (
	"context"
	"fmt"
	"time"

	pkgRedis "robot-notifier/pkg/redis"
)

type redisStore struct {
	redis pkgRedis.IRedis
}

// NewRedis creates a Store backed by Redis.
func NewRedis(r pkgRedis.IRedis) Store {
	return &redisStore{redis: r}
}

func (s *redisStore) TryReserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}
	ok, err := s.redis.SetNX(ctx, key, "1", ttl)
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}

func (s *redisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, bool, error) {
	count, err := s.redis.Incr(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("incr %s: %w", key, err)
	}

	// A key that expired between windows is recreated by INCR without a TTL;
	// the first increment of a window hits the same path.
	ttl, err := s.redis.TTL(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("ttl %s: %w", key, err)
	}
	if ttl <= 0 {
		if _, err := s.redis.Expire(ctx, key, window); err != nil {
			return 0, false, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	return count, count == 1, nil
}

package ratelimit

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"robot-notifier/internal/frequency"
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/log"
)

// NewContentLimiter creates a ContentLimiter over store.
func NewContentLimiter(logger log.Logger, store frequency.Store) ContentLimiter {
	return &contentLimiter{store: store, logger: logger}
}

func (l *contentLimiter) Allow(ctx context.Context, ch robot.Channel, content string) bool {
	if !ch.Enabled {
		return false
	}
	if ch.ContentCooldown <= 0 {
		return true
	}

	ok, err := l.store.TryReserve(ctx, contentKey(ch.Key, content), ch.ContentCooldown)
	if err != nil {
		// frequency.Dual never fails; a bare backend might.
		l.logger.Warnf(ctx, "internal.ratelimit.contentLimiter.Allow: [%s] reserve failed, allowing: %v", ch.Key, err)
		return true
	}
	return ok
}

func contentKey(channel, content string) string {
	sum := md5.Sum([]byte(content))
	return contentKeyPrefix + channel + ":" + hex.EncodeToString(sum[:])
}

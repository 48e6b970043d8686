package ratelimit

import (
	"context"

	"robot-notifier/internal/frequency"
	"robot-notifier/pkg/log"
)

// NewCredentialLimiter creates a CredentialLimiter allowing limit sends per
// CredentialWindow. A non-positive limit uses DefaultCredentialLimit.
func NewCredentialLimiter(logger log.Logger, store frequency.Store, limit int) CredentialLimiter {
	if limit <= 0 {
		limit = DefaultCredentialLimit
	}
	return &credentialLimiter{store: store, logger: logger, limit: int64(limit)}
}

func (l *credentialLimiter) Allow(ctx context.Context, token string) bool {
	count, _, err := l.store.Increment(ctx, credentialKeyPrefix+token, CredentialWindow)
	if err != nil {
		l.logger.Warnf(ctx, "internal.ratelimit.credentialLimiter.Allow: increment failed, allowing: %v", err)
		return true
	}
	return count <= l.limit
}

package ratelimit

import (
	"context"

	"robot-notifier/internal/robot"
)

// ContentLimiter suppresses identical content within a channel's cooldown.
type ContentLimiter interface {
	// Allow reports whether content may be sent on ch now. An allowed call
	// starts a new cooldown; a denied call has no side effect.
	Allow(ctx context.Context, ch robot.Channel, content string) bool
}

// CredentialLimiter caps sends per credential in a fixed window.
type CredentialLimiter interface {
	// Allow counts one send against token and reports whether it is within
	// the cap. Rejected calls are counted too.
	Allow(ctx context.Context, token string) bool
}

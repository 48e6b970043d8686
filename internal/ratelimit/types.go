package ratelimit

import (
	"time"

	"robot-notifier/internal/frequency"
	"robot-notifier/pkg/log"
)

const (
	contentKeyPrefix    = "DING_TALK:FREQUENCY:MSG:"
	credentialKeyPrefix = "DING_TALK:FREQUENCY:ROBOT:"

	// CredentialWindow matches the per-minute quota enforced by the gateway.
	CredentialWindow = 60 * time.Second
	// DefaultCredentialLimit is the gateway's documented per-minute cap.
	DefaultCredentialLimit = 20
)

type contentLimiter struct {
	store  frequency.Store
	logger log.Logger
}

type credentialLimiter struct {
	store  frequency.Store
	logger log.Logger
	limit  int64
}

package jwt

import (
	"fmt"
	"time"
)

// Manager issues and verifies HS256 tokens for API callers.
type Manager interface {
	// Generate signs a token for subject valid for ttl.
	Generate(subject string, ttl time.Duration) (string, error)
	Verify(token string) (Claims, error)
}

// New creates a Manager. The secret must be at least MinSecretKeyLen bytes.
func New(cfg Config) (Manager, error) {
	if len(cfg.SecretKey) < MinSecretKeyLen {
		return nil, fmt.Errorf("%w: need %d characters, got %d", ErrWeakSecret, MinSecretKeyLen, len(cfg.SecretKey))
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &managerImpl{secretKey: []byte(cfg.SecretKey), issuer: issuer}, nil
}

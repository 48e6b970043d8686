package usecase

import (
	"context"
	"math/rand"
	"slices"

	"robot-notifier/internal/ratelimit"
	"robot-notifier/internal/robot"
)

type selector struct {
	limiter ratelimit.CredentialLimiter
	shuffle func([]robot.Credential)
}

// pick returns the first credential, in random order, that is still under
// its send cap. Each candidate tried counts one send against its window.
func (s selector) pick(ctx context.Context, creds []robot.Credential) (robot.Credential, bool) {
	candidates := slices.Clone(creds)
	s.shuffle(candidates)
	for _, c := range candidates {
		if s.limiter.Allow(ctx, c.Token) {
			return c, true
		}
	}
	return robot.Credential{}, false
}

func shuffleCredentials(c []robot.Credential) {
	rand.Shuffle(len(c), func(i, j int) {
		c[i], c[j] = c[j], c[i]
	})
}

package robot

import (
	"context"
	"strings"
	"sync"
	"time"

	"robot-notifier/config"
	"robot-notifier/pkg/log"
)

const (
	// DefaultChannel is used when a caller passes an empty channel name.
	DefaultChannel = "default"
	// DefaultContentCooldown applies when a channel omits its frequency.
	DefaultContentCooldown = 60 * time.Second

	unconfiguredName = "Robot"
)

// Registry resolves channel names to Channels. Each channel is built on first
// use and cached for the life of the registry. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	logger   log.Logger
	sources  map[string]config.ChannelConfig
	channels map[string]Channel
}

// NewRegistry creates a registry over the raw channel configuration.
// Names are matched case-insensitively.
func NewRegistry(logger log.Logger, sources map[string]config.ChannelConfig) *Registry {
	normalized := make(map[string]config.ChannelConfig, len(sources))
	for name, src := range sources {
		normalized[strings.ToLower(name)] = src
	}
	return &Registry{
		logger:   logger,
		sources:  normalized,
		channels: make(map[string]Channel),
	}
}

// Get returns the channel for name, building it on first use.
func (r *Registry) Get(ctx context.Context, name string) Channel {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultChannel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.channels[key]; ok {
		return ch
	}
	ch := r.build(ctx, key)
	r.channels[key] = ch
	return ch
}

func (r *Registry) build(ctx context.Context, key string) Channel {
	src, ok := r.sources[key]
	if !ok {
		r.logger.Errorf(ctx, "internal.robot.Registry.build: [%s] robot has no config", key)
		return Channel{Key: key, Name: unconfiguredName}
	}

	ch := Channel{
		Key:             key,
		Name:            src.Name,
		Enabled:         src.Enable,
		ContentCooldown: DefaultContentCooldown,
	}
	if src.Frequency != nil {
		ch.ContentCooldown = time.Duration(max(*src.Frequency, 0)) * time.Second
	}

	creds := src.Configs
	if len(creds) == 0 && (src.Token != "" || src.Secret != "") {
		creds = []config.CredentialConfig{{Token: src.Token, Secret: src.Secret}}
	}

	seen := make(map[string]struct{}, len(creds))
	for _, c := range creds {
		if c.Token == "" || c.Secret == "" {
			continue
		}
		if _, dup := seen[c.Token]; dup {
			continue
		}
		seen[c.Token] = struct{}{}
		ch.Credentials = append(ch.Credentials, Credential{Token: c.Token, Secret: c.Secret})
	}

	if !ch.Enabled {
		r.logger.Errorf(ctx, "internal.robot.Registry.build: [%s] robot is not enabled", key)
	} else if len(ch.Credentials) == 0 {
		r.logger.Errorf(ctx, "internal.robot.Registry.build: [%s] robot has no valid credentials, disabling", key)
		ch.Enabled = false
	}

	return ch
}

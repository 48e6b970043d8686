package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"robot-notifier/internal/frequency"
	"robot-notifier/internal/ratelimit"
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/dingtalk"
	"robot-notifier/pkg/log"
)

const (
	// DefaultRequeueBackoff is how long a message waits when every credential
	// of its channel is over the send cap.
	DefaultRequeueBackoff = 60 * time.Second

	timeLayout = "2006-01-02 15:04:05"
)

// ChannelSource resolves channel names. *robot.Registry implements it.
type ChannelSource interface {
	Get(ctx context.Context, name string) robot.Channel
}

// ModeSource reports the active frequency backend. *frequency.Dual
// implements it.
type ModeSource interface {
	Mode() frequency.Mode
}

// Config contains the dispatcher settings.
type Config struct {
	AppName        string
	AppEnv         string
	RequeueBackoff time.Duration
	// HostAddr is printed in notices. Detected from the network interfaces
	// when empty.
	HostAddr      string
	AllowHeaders  []string
	FilterHeaders []string

	Now     func() time.Time
	Shuffle func([]robot.Credential)
}

// Deps are the collaborators of the dispatcher.
type Deps struct {
	Channels   ChannelSource
	Content    ratelimit.ContentLimiter
	Credential ratelimit.CredentialLimiter
	Client     dingtalk.Client
	// Store is optional; Stats reports an empty mode without it.
	Store ModeSource
}

type counters struct {
	accepted  atomic.Int64
	dropped   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	requeued  atomic.Int64
	pending   atomic.Int64
}

type implUseCase struct {
	logger   log.Logger
	cfg      Config
	channels ChannelSource
	content  ratelimit.ContentLimiter
	selector selector
	client   dingtalk.Client
	store    ModeSource
	headers  headerFilter

	mu     sync.RWMutex
	closed bool
	quit   chan struct{}
	wg     sync.WaitGroup
	stats  counters
}

package frequency

import (
	"sync"
	"sync/atomic"
	"time"

	"robot-notifier/pkg/log"
)

// Mode is the backend currently serving a Dual store.
type Mode int32

const (
	ModeDistributed Mode = iota
	ModeLocal
)

func (m Mode) String() string {
	switch m {
	case ModeDistributed:
		return "distributed"
	case ModeLocal:
		return "local"
	default:
		return "unknown"
	}
}

const (
	DefaultSweepInterval = 10 * time.Second
	DefaultOpTimeout     = 2 * time.Second
)

// Clock returns the current time.
type Clock func() time.Time

// MemoryOptions configures a Memory store.
type MemoryOptions struct {
	Clock Clock
}

// DualOptions configures a Dual store.
type DualOptions struct {
	// SweepInterval is how often expired local entries are removed once the
	// store has fallen back to memory.
	SweepInterval time.Duration
	// OpTimeout bounds every call against the distributed backend.
	OpTimeout time.Duration
	Clock     Clock
}

type entry struct {
	count int64
	start time.Time
	ttl   time.Duration
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.start.Add(e.ttl))
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     Clock
}

// Dual serves from a distributed Store and falls back to a Memory store,
// permanently, after the first backend failure.
type Dual struct {
	remote Store
	local  *Memory
	logger log.Logger
	opts   DualOptions

	mode      atomic.Int32
	sweepOnce sync.Once
	closeOnce sync.Once
	quit      chan struct{}
	done      chan struct{}
}

package frequency

import (
	"context"
	"time"

	"robot-notifier/pkg/log"
)

// NewDual creates a Dual store. With a nil remote it starts in local mode.
func NewDual(logger log.Logger, remote Store, opts DualOptions) *Dual {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = DefaultOpTimeout
	}
	d := &Dual{
		remote: remote,
		local:  NewMemory(MemoryOptions{Clock: opts.Clock}),
		logger: logger,
		opts:   opts,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if remote == nil {
		d.mode.Store(int32(ModeLocal))
		d.startSweeper()
	}
	return d
}

// Mode reports which backend serves requests.
func (d *Dual) Mode() Mode {
	return Mode(d.mode.Load())
}

// Local exposes the fallback table.
func (d *Dual) Local() *Memory {
	return d.local
}

func (d *Dual) TryReserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if d.Mode() == ModeDistributed {
		rctx, cancel := d.remoteContext(ctx)
		ok, err := d.remote.TryReserve(rctx, key, ttl)
		cancel()
		if err == nil {
			return ok, nil
		}
		d.downgrade(ctx, err)
	}
	return d.local.TryReserve(ctx, key, ttl)
}

func (d *Dual) Increment(ctx context.Context, key string, window time.Duration) (int64, bool, error) {
	if d.Mode() == ModeDistributed {
		rctx, cancel := d.remoteContext(ctx)
		count, isNew, err := d.remote.Increment(rctx, key, window)
		cancel()
		if err == nil {
			return count, isNew, nil
		}
		d.downgrade(ctx, err)
	}
	return d.local.Increment(ctx, key, window)
}

// remoteContext detaches the backend call from caller cancellation so that
// only backend failures and timeouts count as outages.
func (d *Dual) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d.opts.OpTimeout)
}

// downgrade switches to local mode. The switch never reverts.
func (d *Dual) downgrade(ctx context.Context, cause error) {
	if !d.mode.CompareAndSwap(int32(ModeDistributed), int32(ModeLocal)) {
		return
	}
	d.logger.Errorf(ctx, "internal.frequency.Dual.downgrade: distributed store failed, using local store for the rest of the process: %v", cause)
	d.startSweeper()
}

func (d *Dual) startSweeper() {
	d.sweepOnce.Do(func() {
		go d.sweepLoop()
	})
}

func (d *Dual) sweepLoop() {
	defer close(d.done)

	ticker := time.NewTicker(d.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.quit:
			return
		case <-ticker.C:
			if n := d.local.Sweep(); n > 0 {
				d.logger.Debugf(context.Background(), "internal.frequency.Dual.sweepLoop: removed %d expired entries", n)
			}
		}
	}
}

// Close stops the sweep loop if it is running.
func (d *Dual) Close() error {
	d.closeOnce.Do(func() {
		close(d.quit)
		started := true
		d.sweepOnce.Do(func() { started = false })
		if started {
			<-d.done
		}
	})
	return nil
}

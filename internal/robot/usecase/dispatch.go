package usecase

import (
	"context"
	"encoding/json"
	"time"

	"robot-notifier/internal/robot"
	"robot-notifier/pkg/dingtalk"
)

// buildFunc renders the outbound message once the channel is known and the
// content has passed the cooldown.
type buildFunc func(ch robot.Channel) dingtalk.Message

// dispatch runs the content check on the caller's goroutine and hands the
// accepted message to a background delivery.
func (uc *implUseCase) dispatch(ctx context.Context, channel, dedup string, build buildFunc) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.closed {
		uc.logger.Warnf(ctx, "internal.robot.usecase.dispatch: [%s] %v", channel, robot.ErrShutdown)
		uc.stats.dropped.Add(1)
		return false
	}

	ch := uc.channels.Get(ctx, channel)
	if !uc.content.Allow(ctx, ch, dedup) {
		uc.stats.dropped.Add(1)
		return false
	}

	msg := build(ch)
	uc.stats.accepted.Add(1)
	uc.stats.pending.Add(1)
	uc.wg.Add(1)
	go uc.deliver(context.WithoutCancel(ctx), ch, msg)
	return true
}

// deliver sends msg with the first admissible credential. While every
// credential is over its cap the message waits out the backoff and tries
// again, until it is sent or the dispatcher shuts down.
func (uc *implUseCase) deliver(ctx context.Context, ch robot.Channel, msg dingtalk.Message) {
	defer uc.wg.Done()
	defer uc.stats.pending.Add(-1)

	for {
		if cred, ok := uc.selector.pick(ctx, ch.Credentials); ok {
			uc.send(ctx, ch, cred, msg)
			return
		}

		uc.stats.requeued.Add(1)
		uc.logger.Warnf(ctx, "internal.robot.usecase.deliver: [%s] all robots are rate limited, retrying in %s", ch.Key, uc.cfg.RequeueBackoff)

		timer := time.NewTimer(uc.cfg.RequeueBackoff)
		select {
		case <-timer.C:
		case <-uc.quit:
			timer.Stop()
			uc.stats.failed.Add(1)
			uc.logger.Warnf(ctx, "internal.robot.usecase.deliver: [%s] abandoned on shutdown, payload: %s", ch.Key, encode(msg))
			return
		}
	}
}

func (uc *implUseCase) send(ctx context.Context, ch robot.Channel, cred robot.Credential, msg dingtalk.Message) {
	ts := uc.cfg.Now().UnixMilli()
	resp, err := uc.client.Send(ctx, dingtalk.SendRequest{
		Token:     cred.Token,
		Timestamp: ts,
		Sign:      dingtalk.Sign(cred.Secret, ts),
		Message:   msg,
	})
	if err != nil {
		uc.stats.failed.Add(1)
		uc.logger.Errorf(ctx, "internal.robot.usecase.send: [%s] send failed: %v, response: %s", ch.Key, err, encode(resp))
		uc.logger.Errorf(ctx, "internal.robot.usecase.send: [%s] send data: %s", ch.Key, encode(msg))
		return
	}

	uc.stats.delivered.Add(1)
	uc.logger.Debugf(ctx, "internal.robot.usecase.send: [%s] delivered %s", ch.Key, msg.MsgType)
}

func (uc *implUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	if !uc.closed {
		uc.closed = true
		close(uc.quit)
	}
	uc.mu.Unlock()

	return uc.Wait(ctx)
}

func (uc *implUseCase) Stats() robot.Stats {
	s := robot.Stats{
		Accepted:  uc.stats.accepted.Load(),
		Dropped:   uc.stats.dropped.Load(),
		Delivered: uc.stats.delivered.Load(),
		Failed:    uc.stats.failed.Load(),
		Requeued:  uc.stats.requeued.Load(),
		Pending:   uc.stats.pending.Load(),
	}
	if uc.store != nil {
		s.StoreMode = uc.store.Mode().String()
	}
	return s
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

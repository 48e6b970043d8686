package main

import (
	"context"
	"errors"
	"fmt"

	"robot-notifier/config"
	configRedis "robot-notifier/config/redis"
	"robot-notifier/internal/frequency"
	"robot-notifier/internal/ratelimit"
	"robot-notifier/internal/robot"
	"robot-notifier/internal/robot/usecase"
	"robot-notifier/pkg/dingtalk"
	"robot-notifier/pkg/log"
)

// session is a short-lived dispatcher for one command invocation.
type session struct {
	cfg     *config.EnvConfig
	logger  log.Logger
	uc      robot.UseCase
	channel string
	closers []func() error
}

func newSession(ctx context.Context, cfg *config.EnvConfig) *session {
	logger := log.Init(log.ZapConfig{
		Level:    cfg.Logger.Level,
		Mode:     log.ModeProduction,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	s := &session{cfg: cfg, logger: logger}

	var remote frequency.Store
	if cfg.Redis.Host != "" {
		client, err := configRedis.ConnectEnv(cfg.Redis)
		if err != nil {
			logger.Warnf(ctx, "cmd.robotctl.newSession: %v, rate limiting in local mode", err)
		} else {
			s.closers = append(s.closers, client.Close)
			remote = frequency.NewRedis(client)
		}
	}

	store := frequency.NewDual(logger, remote, frequency.DualOptions{OpTimeout: cfg.Redis.OpTimeout})
	client := dingtalk.New(dingtalk.Config{Gateway: cfg.Robot.Gateway, Timeout: cfg.Robot.Timeout})
	s.closers = append(s.closers, store.Close, client.Close)

	s.channel = cfg.Robot.Channel
	channels := map[string]config.ChannelConfig{s.channel: cfg.Robot.ChannelConfig()}
	s.uc = usecase.New(logger, usecase.Deps{
		Channels:   robot.NewRegistry(logger, channels),
		Content:    ratelimit.NewContentLimiter(logger, store),
		Credential: ratelimit.NewCredentialLimiter(logger, store, cfg.Robot.Frequency),
		Client:     client,
		Store:      store,
	}, usecase.Config{
		AppName:        cfg.AppName,
		AppEnv:         cfg.Environment,
		RequeueBackoff: cfg.Robot.RequeueBackoff,
	})
	return s
}

// finish waits for the accepted message and releases resources. A message
// still waiting for a credential when ctx expires is abandoned.
func (s *session) finish(ctx context.Context) error {
	err := s.uc.Wait(ctx)
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dingtalk.DefaultTimeout)
		defer cancel()
		_ = s.uc.Shutdown(shutdownCtx)
		err = fmt.Errorf("delivery did not finish: %w", err)
	}

	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}

	if stats := s.uc.Stats(); stats.Failed > 0 {
		err = errors.Join(err, errors.New("delivery failed, see log"))
	}
	return err
}

package main

import (
	"context"

	"robot-notifier/config"
	configRedis "robot-notifier/config/redis"
	"robot-notifier/pkg/log"
	pkgRedis "robot-notifier/pkg/redis"
)

// connectRedis returns a nil client when Redis is disabled.
func connectRedis(ctx context.Context, logger log.Logger, cfg config.RedisConfig) (pkgRedis.IRedis, error) {
	if !cfg.Enabled {
		logger.Info(ctx, "Redis disabled, rate limiting in local mode")
		return nil, nil
	}

	client, err := configRedis.Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Redis connected to %s:%d", cfg.Host, cfg.Port)
	return client, nil
}

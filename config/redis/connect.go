package redis

import (
	"fmt"

	"robot-notifier/config"
	pkgRedis "robot-notifier/pkg/redis"
)

// Connect initializes and returns a Redis client
func Connect(cfg config.RedisConfig) (pkgRedis.IRedis, error) {
	client, err := pkgRedis.New(pkgRedis.RedisConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Password:        cfg.Password,
		DB:              cfg.DB,
		UseTLS:          cfg.UseTLS,
		MaxRetries:      cfg.MaxRetries,
		MinIdleConns:    cfg.MinIdleConns,
		PoolSize:        cfg.PoolSize,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// ConnectEnv connects using the command line configuration.
func ConnectEnv(cfg config.RedisEnvConfig) (pkgRedis.IRedis, error) {
	return Connect(config.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
		UseTLS:   cfg.UseTLS,
	})
}

// Disconnect closes the Redis connection
func Disconnect(client pkgRedis.IRedis) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"robot-notifier/config"
	configRedis "robot-notifier/config/redis"
	"robot-notifier/internal/frequency"
	"robot-notifier/internal/httpserver"
	"robot-notifier/internal/ratelimit"
	"robot-notifier/internal/robot"
	"robot-notifier/internal/robot/usecase"
	"robot-notifier/pkg/dingtalk"
	"robot-notifier/pkg/jwt"
	"robot-notifier/pkg/log"
)

// @Name Robot Notifier
// @description Fan-out robot notification API.
// @version 1
// @host localhost:8080
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		Service:      cfg.App.Name,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it rate limiting starts in local mode.
	var remote frequency.Store
	redisClient, err := connectRedis(ctx, logger, cfg.Redis)
	if err != nil {
		logger.Errorf(ctx, "Redis unavailable, rate limiting in local mode: %v", err)
	} else if redisClient != nil {
		defer configRedis.Disconnect(redisClient)
		remote = frequency.NewRedis(redisClient)
	}

	store := frequency.NewDual(logger, remote, frequency.DualOptions{
		SweepInterval: cfg.Robot.SweepInterval,
		OpTimeout:     cfg.Redis.OpTimeout,
	})
	defer store.Close()

	client := dingtalk.New(dingtalk.Config{
		Gateway: cfg.Robot.Gateway,
		Timeout: cfg.Robot.Timeout,
	})
	defer client.Close()

	robotUC := usecase.New(logger, usecase.Deps{
		Channels:   robot.NewRegistry(logger, cfg.Robot.Channels),
		Content:    ratelimit.NewContentLimiter(logger, store),
		Credential: ratelimit.NewCredentialLimiter(logger, store, cfg.Robot.Frequency),
		Client:     client,
		Store:      store,
	}, usecase.Config{
		AppName:        cfg.App.Name,
		AppEnv:         cfg.Environment.Name,
		RequeueBackoff: cfg.Robot.RequeueBackoff,
		AllowHeaders:   cfg.Robot.AllowHeaders,
		FilterHeaders:  cfg.Robot.FilterHeaders,
	})

	var jwtMgr jwt.Manager
	if cfg.JWT.SecretKey != "" {
		if jwtMgr, err = jwt.New(jwt.Config{SecretKey: cfg.JWT.SecretKey}); err != nil {
			logger.Errorf(ctx, "Failed to initialize JWT: %v", err)
			os.Exit(1)
		}
	}

	srv, err := httpserver.New(logger, httpserver.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		Mode:         cfg.Server.Mode,
		Environment:  cfg.Environment.Name,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		RobotUC:      robotUC,
		Store:        store,
		TraceChannel: cfg.Robot.Trace,
		JWTManager:   jwtMgr,
		Redis:        redisClient,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Errorf(ctx, "Server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped")
}

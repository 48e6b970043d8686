package httpserver

import (
	"errors"
	"sync/atomic"
	"time"

	"robot-notifier/internal/robot"
	"robot-notifier/internal/robot/usecase"
	"robot-notifier/pkg/jwt"
	"robot-notifier/pkg/log"
	pkgRedis "robot-notifier/pkg/redis"

	"github.com/gin-gonic/gin"
)

const (
	Api = "/api/v1"

	defaultShutdownTimeout = 15 * time.Second
)

// HTTPServer represents the HTTP server with all dependencies.
// New() wires routes and validates dependencies; Run() serves until the
// context is cancelled.
type HTTPServer struct {
	gin         *gin.Engine
	logger      log.Logger
	host        string
	port        int
	environment string
	rateLimit   float64
	rateBurst   int

	robotUC      robot.UseCase
	store        usecase.ModeSource
	traceChannel string
	jwtMgr       jwt.Manager

	redis           pkgRedis.IRedis
	shutdownTimeout time.Duration
	draining        atomic.Bool
}

// Config is the constructor input for HTTPServer.
type Config struct {
	Host        string
	Port        int
	Mode        string
	Environment string
	RateLimit   float64
	RateBurst   int

	RobotUC      robot.UseCase
	Store        usecase.ModeSource
	TraceChannel string

	// JWTManager is optional; nil leaves the API open.
	JWTManager jwt.Manager
	// Redis is optional; nil when the service runs without a distributed store.
	Redis pkgRedis.IRedis

	ShutdownTimeout time.Duration
}

// New creates a new HTTPServer instance with the provided configuration.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		gin:         gin.New(),
		logger:      logger,
		host:        cfg.Host,
		port:        cfg.Port,
		environment: cfg.Environment,
		rateLimit:   cfg.RateLimit,
		rateBurst:   cfg.RateBurst,

		robotUC:      cfg.RobotUC,
		store:        cfg.Store,
		traceChannel: cfg.TraceChannel,
		jwtMgr:       cfg.JWTManager,

		redis:           cfg.Redis,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (s *HTTPServer) validate() error {
	if s.logger == nil {
		return errors.New("logger is required")
	}
	if s.port == 0 {
		return errors.New("port is required")
	}
	if s.robotUC == nil {
		return errors.New("robot use case is required")
	}
	return nil
}

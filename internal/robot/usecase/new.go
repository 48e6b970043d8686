package usecase

import (
	"net"
	"os"
	"time"

	"robot-notifier/internal/robot"
	"robot-notifier/pkg/log"
)

// New creates the dispatcher.
func New(logger log.Logger, deps Deps, cfg Config) robot.UseCase {
	if cfg.RequeueBackoff <= 0 {
		cfg.RequeueBackoff = DefaultRequeueBackoff
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Shuffle == nil {
		cfg.Shuffle = shuffleCredentials
	}
	if cfg.HostAddr == "" {
		cfg.HostAddr = hostAddr()
	}

	return &implUseCase{
		logger:   logger,
		cfg:      cfg,
		channels: deps.Channels,
		content:  deps.Content,
		selector: selector{limiter: deps.Credential, shuffle: cfg.Shuffle},
		client:   deps.Client,
		store:    deps.Store,
		headers:  newHeaderFilter(cfg.AllowHeaders, cfg.FilterHeaders),
		quit:     make(chan struct{}),
	}
}

// hostAddr returns the first non-loopback IPv4 address, or the hostname.
func hostAddr() string {
	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, a := range addrs {
			if ipNet, ok := a.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
				return ipNet.IP.String()
			}
		}
	}
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "unknown"
}

package dingtalk

import (
	"context"
	"net/http"
	"time"
)

// Client posts signed messages to a robot gateway.
type Client interface {
	// Send performs a single delivery. A nil error means errcode == 0.
	Send(ctx context.Context, req SendRequest) (Response, error)
	Close() error
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// New creates a Client. Zero values in cfg fall back to the defaults.
func New(cfg Config) Client {
	if cfg.Gateway == "" {
		cfg.Gateway = DefaultGateway
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &clientImpl{
		gateway: cfg.Gateway,
		client:  newHTTPClient(cfg.Timeout),
	}
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// EnvConfig is the single-channel configuration used by command line callers.
type EnvConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"robot-notifier"`
	Environment string `env:"APP_ENV" envDefault:"production"`
	// JWTSecret signs tokens issued with "robotctl token".
	JWTSecret string `env:"JWT_SECRET_KEY"`

	Logger LoggerEnvConfig
	Redis  RedisEnvConfig
	Robot  RobotEnvConfig
}

// LoggerEnvConfig is the logger configuration read from the environment.
type LoggerEnvConfig struct {
	Level    string `env:"LOG_LEVEL" envDefault:"warn"`
	Encoding string `env:"LOG_ENCODING" envDefault:"console"`
}

// RedisEnvConfig is the Redis configuration read from the environment.
// An empty host runs the rate limiter in local mode.
type RedisEnvConfig struct {
	Host      string        `env:"REDIS_HOST"`
	Port      int           `env:"REDIS_PORT" envDefault:"6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB" envDefault:"0"`
	UseTLS    bool          `env:"REDIS_USE_TLS" envDefault:"false"`
	OpTimeout time.Duration `env:"REDIS_OP_TIMEOUT" envDefault:"2s"`
}

// RobotEnvConfig describes one channel. ROBOT_TOKEN/ROBOT_SECRET is the
// legacy single pair; ROBOT_TOKENS/ROBOT_SECRETS are parallel lists.
type RobotEnvConfig struct {
	Gateway        string        `env:"ROBOT_GATEWAY" envDefault:"https://oapi.dingtalk.com/robot/send"`
	Channel        string        `env:"ROBOT_CHANNEL" envDefault:"default"`
	Name           string        `env:"ROBOT_NAME" envDefault:"Robot"`
	Cooldown       int           `env:"ROBOT_COOLDOWN" envDefault:"60"`
	Frequency      int           `env:"ROBOT_FREQUENCY" envDefault:"20"`
	RequeueBackoff time.Duration `env:"ROBOT_REQUEUE_BACKOFF" envDefault:"60s"`
	Timeout        time.Duration `env:"ROBOT_TIMEOUT" envDefault:"10s"`
	Token          string        `env:"ROBOT_TOKEN"`
	Secret         string        `env:"ROBOT_SECRET"`
	Tokens         []string      `env:"ROBOT_TOKENS" envSeparator:","`
	Secrets        []string      `env:"ROBOT_SECRETS" envSeparator:","`
}

// LoadEnv parses EnvConfig from the process environment.
func LoadEnv() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.Robot.Tokens) != len(cfg.Robot.Secrets) {
		return nil, fmt.Errorf("ROBOT_TOKENS and ROBOT_SECRETS must have the same length")
	}
	if cfg.Robot.Frequency <= 0 {
		return nil, fmt.Errorf("ROBOT_FREQUENCY must be positive")
	}
	return cfg, nil
}

// ChannelConfig converts the environment description into a ChannelConfig.
func (r RobotEnvConfig) ChannelConfig() ChannelConfig {
	cooldown := r.Cooldown
	ch := ChannelConfig{
		Enable:    true,
		Name:      r.Name,
		Frequency: &cooldown,
		Token:     r.Token,
		Secret:    r.Secret,
	}
	for i := range r.Tokens {
		ch.Configs = append(ch.Configs, CredentialConfig{Token: r.Tokens[i], Secret: r.Secrets[i]})
	}
	return ch
}

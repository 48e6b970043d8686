package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig
	App         AppConfig

	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Redis Configuration
	Redis RedisConfig

	// Authentication Configuration
	JWT JWTConfig

	// Robot Configuration
	Robot RobotConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// AppConfig names the application in formatted notices.
type AppConfig struct {
	Name string
}

// ServerConfig is the configuration for the HTTP server
type ServerConfig struct {
	Host string
	Port int
	Mode string
	// RateLimit is the per-client request rate; zero disables throttling.
	RateLimit float64
	RateBurst int
}

// RedisConfig is the configuration for Redis
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool

	// Connection pool settings
	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// OpTimeout bounds a single rate-limit call before it counts as an outage.
	OpTimeout time.Duration
}

// JWTConfig is the configuration for the JWT. An empty key disables auth.
type JWTConfig struct {
	SecretKey string
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// RobotConfig is the configuration for the robot dispatcher.
type RobotConfig struct {
	Gateway string
	// Frequency is the per-credential send cap per minute.
	Frequency      int
	RequeueBackoff time.Duration
	SweepInterval  time.Duration
	Timeout        time.Duration
	// Trace is the channel that receives recovered panics.
	Trace         string
	AllowHeaders  []string
	FilterHeaders []string
	Channels      map[string]ChannelConfig
}

// ChannelConfig is the raw configuration of one robot channel.
type ChannelConfig struct {
	Enable bool   `mapstructure:"enable"`
	Name   string `mapstructure:"name"`
	// Frequency is the content cooldown in seconds. Nil means the default.
	Frequency *int `mapstructure:"frequency"`

	// Legacy single-credential shape.
	Token  string `mapstructure:"token"`
	Secret string `mapstructure:"secret"`

	Configs []CredentialConfig `mapstructure:"configs"`
}

// CredentialConfig is one token/secret pair.
type CredentialConfig struct {
	Token  string `mapstructure:"token"`
	Secret string `mapstructure:"secret"`
}

// Load loads configuration using Viper
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("robot-config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/robot-notifier/")

	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	setDefaults(v)

	// Read config file (optional - will use env vars if file not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.App.Name = v.GetString("app.name")

	// Server
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.Mode = v.GetString("server.mode")
	cfg.Server.RateLimit = v.GetFloat64("server.rate_limit")
	cfg.Server.RateBurst = v.GetInt("server.rate_burst")

	// Logger
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Redis
	cfg.Redis.Enabled = v.GetBool("redis.enabled")
	cfg.Redis.Host = v.GetString("redis.host")
	cfg.Redis.Port = v.GetInt("redis.port")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.UseTLS = v.GetBool("redis.use_tls")
	cfg.Redis.MaxRetries = v.GetInt("redis.max_retries")
	cfg.Redis.MinIdleConns = v.GetInt("redis.min_idle_conns")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")
	cfg.Redis.PoolTimeout = v.GetDuration("redis.pool_timeout")
	cfg.Redis.ConnMaxIdleTime = v.GetDuration("redis.conn_max_idle_time")
	cfg.Redis.ConnMaxLifetime = v.GetDuration("redis.conn_max_lifetime")
	cfg.Redis.OpTimeout = v.GetDuration("redis.op_timeout")

	// JWT
	cfg.JWT.SecretKey = v.GetString("jwt.secret_key")

	// Robot
	cfg.Robot.Gateway = v.GetString("robot.gateway")
	cfg.Robot.Frequency = v.GetInt("robot.frequency")
	cfg.Robot.RequeueBackoff = v.GetDuration("robot.requeue_backoff")
	cfg.Robot.SweepInterval = v.GetDuration("robot.sweep_interval")
	cfg.Robot.Timeout = v.GetDuration("robot.timeout")
	cfg.Robot.Trace = v.GetString("robot.trace")
	cfg.Robot.AllowHeaders = v.GetStringSlice("robot.allow_headers")
	cfg.Robot.FilterHeaders = v.GetStringSlice("robot.filter_headers")
	if err := v.UnmarshalKey("robot.configs", &cfg.Robot.Channels); err != nil {
		return nil, fmt.Errorf("robot.configs: %w", err)
	}

	// Validate required fields
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Environment
	v.SetDefault("environment.name", "production")
	v.SetDefault("app.name", "robot-notifier")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 20)

	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "production")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.color_enabled", false)

	// Redis
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.use_tls", false)
	v.SetDefault("redis.max_retries", 1)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.pool_timeout", 4*time.Second)
	v.SetDefault("redis.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("redis.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("redis.op_timeout", 2*time.Second)

	// Robot
	v.SetDefault("robot.gateway", "https://oapi.dingtalk.com/robot/send")
	v.SetDefault("robot.frequency", 20)
	v.SetDefault("robot.requeue_backoff", 60*time.Second)
	v.SetDefault("robot.sweep_interval", 10*time.Second)
	v.SetDefault("robot.timeout", 10*time.Second)
	v.SetDefault("robot.trace", "default")
	v.SetDefault("robot.allow_headers", []string{})
	v.SetDefault("robot.filter_headers", DefaultFilterHeaders)
}

// DefaultFilterHeaders are never copied into notices, even when allowed.
var DefaultFilterHeaders = []string{
	"content-type",
	"client-key",
	"client-timestamp",
	"client-nonce",
	"client-sign",
	"client-accesskey",
}

func validate(cfg *Config) error {
	// Validate Redis
	if cfg.Redis.Enabled {
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis.host is required")
		}
		if cfg.Redis.Port == 0 {
			return fmt.Errorf("redis.port is required")
		}
	}

	// Validate Robot
	if cfg.Robot.Frequency <= 0 {
		return fmt.Errorf("robot.frequency must be positive")
	}
	if cfg.Robot.RequeueBackoff <= 0 {
		return fmt.Errorf("robot.requeue_backoff must be positive")
	}

	// Validate JWT
	if cfg.JWT.SecretKey != "" && len(cfg.JWT.SecretKey) < 32 {
		return fmt.Errorf("jwt.secret_key must be at least 32 characters for security")
	}

	return nil
}

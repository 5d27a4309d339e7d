// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Remote source modes.
const (
	RemoteMock = "mock"
	RemoteHTTP = "http"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Warmer    WarmerConfig    `mapstructure:"warmer"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`

	// CORSOrigins lists the front-end origins allowed to read the API.
	// Empty allows any origin.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// StoreConfig selects the key-value backend holding cached collections.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"` // redis, postgres
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RedisConfig holds Redis connection settings. Redis backs the redis store
// and the warmer's distributed lock.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RemoteConfig selects and configures the remote sources.
type RemoteConfig struct {
	Mode string     `mapstructure:"mode"` // mock, http
	Mock MockConfig `mapstructure:"mock"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// MockConfig holds settings for the in-process mock sources.
type MockConfig struct {
	Latency time.Duration `mapstructure:"latency"`

	// Failure, when set, makes every mock call fail with this message.
	Failure string `mapstructure:"failure"`
}

// HTTPConfig holds the portal API endpoint settings.
type HTTPConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// SyncConfig holds cache-first repository settings.
type SyncConfig struct {
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout"` // 0 disables the deadline
	DrainTimeout   time.Duration `mapstructure:"drain_timeout"`
}

// WarmerConfig holds the periodic cache warmer settings.
type WarmerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LockKey   string        `mapstructure:"lock_key"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled      bool              `mapstructure:"enabled"`
	OTLPEndpoint string            `mapstructure:"otlp_endpoint"`
	Insecure     bool              `mapstructure:"insecure"`
	ServiceName  string            `mapstructure:"service_name"`
	Headers      map[string]string `mapstructure:"headers"`
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Remote.Mode {
	case RemoteMock:
	case RemoteHTTP:
		if c.Remote.HTTP.BaseURL == "" {
			return fmt.Errorf("remote.http.base_url is required in %s mode", RemoteHTTP)
		}
	default:
		return fmt.Errorf("unknown remote mode %q", c.Remote.Mode)
	}

	if c.Warmer.Enabled && c.Warmer.Interval <= 0 {
		return fmt.Errorf("warmer.interval must be positive, got %s", c.Warmer.Interval)
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		return fmt.Errorf("telemetry.otlp_endpoint is required when telemetry is enabled")
	}

	return nil
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "portal-sync-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Store defaults
	v.SetDefault("store.backend", StoreRedis)
	v.SetDefault("store.key_prefix", "portal")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "portal")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Remote defaults
	v.SetDefault("remote.mode", RemoteMock)
	v.SetDefault("remote.mock.latency", "500ms")
	v.SetDefault("remote.mock.failure", "")
	v.SetDefault("remote.http.base_url", "http://localhost:8081")
	v.SetDefault("remote.http.timeout", "10s")
	v.SetDefault("remote.http.retry.max_attempts", 3)
	v.SetDefault("remote.http.retry.wait_time", "1s")
	v.SetDefault("remote.http.retry.max_wait_time", "5s")
	v.SetDefault("remote.http.circuit_breaker.max_requests", 3)
	v.SetDefault("remote.http.circuit_breaker.interval", "60s")
	v.SetDefault("remote.http.circuit_breaker.timeout", "30s")
	v.SetDefault("remote.http.circuit_breaker.failure_ratio", 0.5)

	// Sync defaults
	v.SetDefault("sync.refresh_timeout", "30s")
	v.SetDefault("sync.drain_timeout", "10s")

	// Warmer defaults
	v.SetDefault("warmer.enabled", false)
	v.SetDefault("warmer.interval", "5m")
	v.SetDefault("warmer.on_startup", true)
	v.SetDefault("warmer.timeout", "30s")
	v.SetDefault("warmer.lock_key", "portal-sync:warmer")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "portal-sync-service")
}

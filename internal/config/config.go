// Package config loads kansen settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/kansen-app/kansen/internal/logger"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	Server   ServerConfig
	Redis    RedisConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// DatabaseConfig selects the game store.
type DatabaseConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite, postgres or mysql
	DSN    string `envconfig:"DB_DSN" default:"./data/kansen.db"`
}

// SourceConfig points the fetcher at the schedule site.
type SourceConfig struct {
	BaseURL string        `envconfig:"SOURCE_BASE_URL" default:"https://npb.jp"`
	Timeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
}

// ServerConfig holds HTTP trigger settings.
type ServerConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	RequestTimeout  time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

// RedisConfig configures sync report publishing. Publishing is off when Addr is empty.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Stream   string `envconfig:"REDIS_STREAM" default:"kansen.sync.reports"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// Level returns the parsed log level.
func (c *Config) Level() (logger.Level, error) {
	return logger.ParseLevel(c.LogLevel)
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	// a missing .env file is not an error
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (want sqlite, postgres or mysql)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the dashboard server.
type Config struct {
	Env       string `envconfig:"ENV" default:"development"`
	Addr      string `envconfig:"ADDR" default:":9876"`
	BasePath  string `envconfig:"BASE_PATH" default:"/api"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr   string        `envconfig:"REDIS_ADDR"`
	RedisPrefix string        `envconfig:"REDIS_PREFIX" default:"dashboard"`
	RedisTTL    time.Duration `envconfig:"REDIS_TTL" default:"0"`

	BackendURL   string        `envconfig:"BACKEND_URL"`
	BackendToken string        `envconfig:"BACKEND_TOKEN"`
	BackendCSRF  string        `envconfig:"BACKEND_CSRF"`
	CatalogTTL   time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
	SessionRetry time.Duration `envconfig:"SESSION_RETRY" default:"30s"`

	TrustUserHeader bool `envconfig:"TRUST_USER_HEADER" default:"false"`

	Manifests    []string `envconfig:"MANIFEST"`
	InstanceName string   `envconfig:"INSTANCE_NAME" default:"Invex"`
	Barcode      bool     `envconfig:"BARCODE_ENABLE" default:"false"`
	Activity     bool     `envconfig:"ACTIVITY_ENABLED" default:"true"`
}

// LoadConfig reads DASHBOARD_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("dashboard", &cfg); err != nil {
		return nil, err
	}
	if cfg.BackendToken != "" && cfg.BackendURL == "" {
		return nil, errors.New("backend token set without backend url")
	}
	return &cfg, nil
}

// IsProduction returns true when the server runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// NewLogger returns a JSON logger in production or when asked, text otherwise.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if cfg.IsProduction() || cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

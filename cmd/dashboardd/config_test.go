package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9876", cfg.Addr)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, 5*time.Minute, cfg.CatalogTTL)
	assert.Equal(t, 30*time.Second, cfg.SessionRetry)
	assert.False(t, cfg.TrustUserHeader)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DASHBOARD_ENV", "production")
	t.Setenv("DASHBOARD_REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("DASHBOARD_MANIFEST", "a.yaml,b.yaml")
	t.Setenv("DASHBOARD_BARCODE_ENABLE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Manifests)
	assert.True(t, cfg.Barcode)
}

func TestLoadConfigRejectsTokenWithoutBackend(t *testing.T) {
	t.Setenv("DASHBOARD_BACKEND_TOKEN", "secret")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, parseLevel("nope"))
}

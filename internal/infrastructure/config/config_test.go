package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Std())

	// Session config
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL.Std())
	assert.Equal(t, time.Minute, cfg.Session.ReapInterval.Std())
	assert.Zero(t, cfg.Session.MaxSessions)
	assert.Equal(t, time.Second, cfg.Session.BootDelay.Std())

	// Storage config
	assert.Equal(t, "memory", cfg.Storage.Driver)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadMatchesDefault(t *testing.T) {
	// Should match Default when no env vars set
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                  "9000",
		"HOST":                  "127.0.0.1",
		"SHUTDOWN_TIMEOUT":      "3s",
		"SESSION_IDLE_TTL":      "5m",
		"SESSION_REAP_INTERVAL": "10s",
		"SESSION_MAX":           "50",
		"DESKTOP_BOOT_DELAY":    "250ms",
		"STORAGE_DRIVER":        "sqlite",
		"STORAGE_PATH":          "/var/lib/desk.db",
		"WALLPAPER_DIR":         "public/wallpapers",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
		"RATE_LIMIT_RPS":        "500",
		"RATE_LIMIT_BURST":      "1000",
		"RATE_LIMIT_ENABLED":    "false",
		"CORS_ORIGINS":          "http://localhost:3000,https://example.com",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL.Std())
	assert.Equal(t, 10*time.Second, cfg.Session.ReapInterval.Std())
	assert.Equal(t, 50, cfg.Session.MaxSessions)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.BootDelay.Std())
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/desk.db", cfg.Storage.Path)
	assert.Equal(t, "public/wallpapers", cfg.Wallpapers.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "forever")

	_, err := Load()
	assert.Error(t, err)

	// LoadOrDefault swallows the error
	assert.Equal(t, Default(), LoadOrDefault())
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktop.toml")
	data := `
[server]
port = "7000"

[session]
idle_ttl = "2h"
max_sessions = 8

[storage]
driver = "diskv"
path = "/tmp/desk"

[cors]
allowed_origins = ["https://portfolio.example"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv(FileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	// file wins over the environment
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL.Std())
	assert.Equal(t, 8, cfg.Session.MaxSessions)
	assert.Equal(t, "diskv", cfg.Storage.Driver)
	assert.Equal(t, []string{"https://portfolio.example"}, cfg.CORS.AllowedOrigins)

	// keys missing from the file keep env and default values
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, time.Minute, cfg.Session.ReapInterval.Std())
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "malformed toml", content: "[server\nport = "},
		{name: "bad duration", content: "[session]\nidle_ttl = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "desktop.toml")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			t.Setenv(FileEnv, path)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantAddr string
	}{
		{name: "default values", wantAddr: "0.0.0.0:8000"},
		{name: "custom port", port: "9000", wantAddr: "0.0.0.0:9000"},
		{name: "custom host", host: "localhost", wantAddr: "localhost:8000"},
		{name: "custom port and host", port: "3000", host: "127.0.0.1", wantAddr: "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg := LoadOrDefault()
			assert.Equal(t, tt.wantAddr, cfg.Server.Addr())
		})
	}
}

func TestRateLimitConfig(t *testing.T) {
	tests := []struct {
		name        string
		rps         string
		burst       string
		enabled     string
		wantRPS     int
		wantBurst   int
		wantEnabled bool
	}{
		{
			name:        "default values",
			wantRPS:     100,
			wantBurst:   200,
			wantEnabled: true,
		},
		{
			name:        "high limits",
			rps:         "1000",
			burst:       "2000",
			wantRPS:     1000,
			wantBurst:   2000,
			wantEnabled: true,
		},
		{
			name:        "disabled",
			enabled:     "false",
			wantRPS:     100,
			wantBurst:   200,
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rps != "" {
				t.Setenv("RATE_LIMIT_RPS", tt.rps)
			}
			if tt.burst != "" {
				t.Setenv("RATE_LIMIT_BURST", tt.burst)
			}
			if tt.enabled != "" {
				t.Setenv("RATE_LIMIT_ENABLED", tt.enabled)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantRPS, cfg.RateLimit.RequestsPerSecond)
			assert.Equal(t, tt.wantBurst, cfg.RateLimit.Burst)
			assert.Equal(t, tt.wantEnabled, cfg.RateLimit.Enabled)
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the optional TOML file layered over the environment
const FileEnv = "DESKTOP_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig    `toml:"server"`
	Session    SessionConfig   `toml:"session"`
	Storage    StorageConfig   `toml:"storage"`
	Wallpapers WallpaperConfig `toml:"wallpapers"`
	Logging    LogConfig       `toml:"logging"`
	RateLimit  RateLimitConfig `toml:"rate_limit"`
	CORS       CORSConfig      `toml:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8000" toml:"port"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0" toml:"host"`
	ShutdownTimeout Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" toml:"shutdown_timeout"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// SessionConfig holds desktop session lifetime configuration.
type SessionConfig struct {
	IdleTTL      Duration `envconfig:"SESSION_IDLE_TTL" default:"30m" toml:"idle_ttl"`
	ReapInterval Duration `envconfig:"SESSION_REAP_INTERVAL" default:"1m" toml:"reap_interval"`
	MaxSessions  int      `envconfig:"SESSION_MAX" default:"0" toml:"max_sessions"`
	BootDelay    Duration `envconfig:"DESKTOP_BOOT_DELAY" default:"1s" toml:"boot_delay"`
}

// StorageConfig selects the key-value driver.
type StorageConfig struct {
	Driver    string `envconfig:"STORAGE_DRIVER" default:"memory" toml:"driver"`
	Path      string `envconfig:"STORAGE_PATH" default:"data" toml:"path"`
	CacheSize uint64 `envconfig:"STORAGE_CACHE_SIZE" default:"1048576" toml:"cache_size"`
}

// WallpaperConfig points at the static wallpaper images.
type WallpaperConfig struct {
	Dir     string `envconfig:"WALLPAPER_DIR" default:"" toml:"dir"`
	Prefix  string `envconfig:"WALLPAPER_PREFIX" default:"/wallpapers" toml:"prefix"`
	Pattern string `envconfig:"WALLPAPER_PATTERN" default:"" toml:"pattern"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// CORSConfig holds the allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" default:"*" toml:"allowed_origins"`
}

// Duration is a time.Duration read from strings like "30m" in both the
// environment and TOML files.
type Duration time.Duration

// Std returns the standard library duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load loads configuration from environment variables, then overlays the
// TOML file named by DESKTOP_CONFIG if set. Keys present in the file win.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := os.Getenv(FileEnv); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// LoadFile overlays the TOML file at path onto cfg
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Session: SessionConfig{
			IdleTTL:      Duration(30 * time.Minute),
			ReapInterval: Duration(time.Minute),
			BootDelay:    Duration(time.Second),
		},
		Storage: StorageConfig{
			Driver:    "memory",
			Path:      "data",
			CacheSize: 1 << 20,
		},
		Wallpapers: WallpaperConfig{
			Prefix: "/wallpapers",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

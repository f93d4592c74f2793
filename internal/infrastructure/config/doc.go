// Package config provides 12-factor configuration management for the desktop backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// A TOML file named by DESKTOP_CONFIG is layered on top, and CLI flags in the
// binaries override both.
//
// Configuration Sections:
//   - Server: HTTP listen address and shutdown grace period
//   - Session: idle TTL, reaper interval, session cap, boot delay
//   - Storage: key-value driver (memory, diskv, sqlite) and its path
//   - Wallpapers: directory of static wallpaper images
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: allowed browser origins
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - SESSION_IDLE_TTL, SESSION_REAP_INTERVAL, SESSION_MAX, DESKTOP_BOOT_DELAY
//   - STORAGE_DRIVER, STORAGE_PATH, STORAGE_CACHE_SIZE
//   - WALLPAPER_DIR, WALLPAPER_PREFIX, WALLPAPER_PATTERN
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS
package config

// Package storage is the key-value persistence behind desktop sessions.
//
// Values are opaque byte blobs keyed by slash-separated strings
// ("<session>/wallpaper", "<session>/window-size-terminal"). Three drivers
// exist: an in-process map, diskv files and a SQLite table.
//
// Callers treat persistence as best-effort: see LoadJSON for the
// fall-back-to-defaults contract.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Drivers
const (
	DriverMemory = "memory"
	DriverDiskv  = "diskv"
	DriverSQLite = "sqlite"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrInvalidKey    = errors.New("invalid key")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+(/[A-Za-z0-9._-]+)*$`)

// Store is a string-keyed blob store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix, sorted
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Config selects and configures a driver
type Config struct {
	Driver string
	// Path is the diskv base directory or the SQLite database file
	Path string
	// CacheSize bounds the diskv in-memory cache in bytes
	CacheSize uint64
}

// Open creates the store named by cfg.Driver
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverDiskv:
		return NewDiskv(cfg.Path, cfg.CacheSize)
	case DriverSQLite:
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// ValidateKey checks that key is a non-empty slash-separated path of safe segments
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

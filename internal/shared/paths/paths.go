package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Names under the data directory
const (
	KVDir       = "kv"
	SQLiteFile  = "desktop.db"
	DefaultData = "data"
)

// DefaultWallpapers is where the static wallpaper images are looked up when
// no directory is configured
const DefaultWallpapers = "public/wallpapers"

// Layout is the on-disk layout below one data directory
type Layout struct {
	Root string
}

// New returns the layout rooted at dir, or at DefaultData when dir is empty
func New(dir string) Layout {
	if dir == "" {
		dir = DefaultData
	}
	return Layout{Root: filepath.Clean(dir)}
}

// KV returns the diskv base directory
func (l Layout) KV() string {
	return filepath.Join(l.Root, KVDir)
}

// SQLite returns the SQLite database file
func (l Layout) SQLite() string {
	return filepath.Join(l.Root, SQLiteFile)
}

// ForDriver returns the storage path for a key-value driver. The memory
// driver has none.
func (l Layout) ForDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "diskv":
		return l.KV()
	case "sqlite":
		return l.SQLite()
	default:
		return ""
	}
}

// Ensure creates the directories the driver needs
func (l Layout) Ensure(driver string) error {
	var dir string
	switch strings.ToLower(driver) {
	case "diskv":
		dir = l.KV()
	case "sqlite":
		dir = l.Root
	default:
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

// Wallpapers returns dir, falling back to DefaultWallpapers. The second
// result reports whether the directory exists.
func Wallpapers(dir string) (string, bool) {
	if dir == "" {
		dir = DefaultWallpapers
	}
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}

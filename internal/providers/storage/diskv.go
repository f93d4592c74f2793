package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const defaultCacheSize = 1024 * 1024 // 1MB

// Diskv stores one file per key; key segments become directories
type Diskv struct {
	d *diskv.Diskv
}

// NewDiskv opens a file store rooted at basePath
func NewDiskv(basePath string, cacheSize uint64) (*Diskv, error) {
	if basePath == "" {
		return nil, errors.New("diskv storage requires a base path")
	}
	if cacheSize == 0 {
		cacheSize = defaultCacheSize
	}

	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      cacheSize,
	})}, nil
}

func (s *Diskv) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	val, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

func (s *Diskv) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Diskv) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}

func (s *Diskv) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Diskv) Close() error {
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "/") + "/" + pathKey.FileName
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// LoadJSON decodes the value at key into v. Missing keys, read errors and
// malformed data all leave v untouched and return false; only the latter
// two are logged.
func LoadJSON(ctx context.Context, s Store, key string, v any, logger *zap.Logger) bool {
	logger = orNop(logger)
	data, ok := load(ctx, s, key, logger)
	if !ok {
		return false
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		logger.Warn("Discarding malformed persisted value",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

// SaveJSON encodes v and stores it at key
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// LoadString reads a raw string value
func LoadString(ctx context.Context, s Store, key string, logger *zap.Logger) (string, bool) {
	data, ok := load(ctx, s, key, logger)
	if !ok {
		return "", false
	}
	return string(data), true
}

// LoadBool reads a "true"/"false" value
func LoadBool(ctx context.Context, s Store, key string, logger *zap.Logger) (bool, bool) {
	logger = orNop(logger)
	raw, ok := LoadString(ctx, s, key, logger)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warn("Discarding malformed persisted flag",
			zap.String("key", key),
			zap.String("value", raw))
		return false, false
	}
	return b, true
}

// SaveString stores a raw string value
func SaveString(ctx context.Context, s Store, key, value string) error {
	return s.Set(ctx, key, []byte(value))
}

func load(ctx context.Context, s Store, key string, logger *zap.Logger) ([]byte, bool) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		orNop(logger).Warn("Failed to read persisted value",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return data, true
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

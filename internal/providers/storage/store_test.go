package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()

	disk, err := NewDiskv(t.TempDir(), 0)
	require.NoError(t, err)

	db, err := NewSQLite(filepath.Join(t.TempDir(), "desk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		DriverMemory: NewMemory(),
		DriverDiskv:  disk,
		DriverSQLite: db,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "s1/wallpaper")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "s1/wallpaper", []byte("/wallpapers/a.jpg")))
			require.NoError(t, s.Set(ctx, "s1/window-size-terminal", []byte(`{"width":640,"height":480}`)))
			require.NoError(t, s.Set(ctx, "s2/wallpaper", []byte("/wallpapers/b.jpg")))

			got, err := s.Get(ctx, "s1/wallpaper")
			require.NoError(t, err)
			assert.Equal(t, "/wallpapers/a.jpg", string(got))

			require.NoError(t, s.Set(ctx, "s1/wallpaper", []byte("/wallpapers/c.jpg")))
			got, err = s.Get(ctx, "s1/wallpaper")
			require.NoError(t, err)
			assert.Equal(t, "/wallpapers/c.jpg", string(got))

			keys, err := s.Keys(ctx, "s1/")
			require.NoError(t, err)
			assert.Equal(t, []string{"s1/wallpaper", "s1/window-size-terminal"}, keys)

			keys, err = s.Keys(ctx, "s1/window-size-")
			require.NoError(t, err)
			assert.Equal(t, []string{"s1/window-size-terminal"}, keys)

			require.NoError(t, s.Delete(ctx, "s1/wallpaper"))
			require.NoError(t, s.Delete(ctx, "s1/wallpaper"))
			_, err = s.Get(ctx, "s1/wallpaper")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSetRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../etc/passwd", "a//b", "/abs", "sp ace"} {
				assert.ErrorIs(t, s.Set(ctx, key, []byte("x")), ErrInvalidKey, key)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Config{Driver: "SQLite", Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Config{Driver: "diskv"})
	assert.Error(t, err)

	_, err = Open(Config{Driver: "redis"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := Namespace(base, "a")
	b := Namespace(base, "b")

	require.NoError(t, a.Set(ctx, "widgets", []byte("[]")))
	require.NoError(t, b.Set(ctx, "widgets", []byte("null")))

	keys, err := a.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"widgets"}, keys)

	require.NoError(t, a.Clear(ctx))
	_, err = a.Get(ctx, "widgets")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := b.Get(ctx, "widgets")
	require.NoError(t, err)
	assert.Equal(t, "null", string(got))
}

func TestLoadJSONFallsBack(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	s := NewMemory()

	type size struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}

	var v size
	assert.False(t, LoadJSON(ctx, s, "missing", &v, logger))
	assert.Zero(t, logs.Len())

	require.NoError(t, s.Set(ctx, "broken", []byte("{not json")))
	v = size{Width: 800, Height: 500}
	assert.False(t, LoadJSON(ctx, s, "broken", &v, logger))
	assert.Equal(t, size{Width: 800, Height: 500}, v)
	assert.Equal(t, 1, logs.Len())

	require.NoError(t, SaveJSON(ctx, s, "ok", size{Width: 640, Height: 480}))
	assert.True(t, LoadJSON(ctx, s, "ok", &v, nil))
	assert.Equal(t, size{Width: 640, Height: 480}, v)
}

func TestLoadBool(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, SaveString(ctx, s, "widgets-visible", "false"))
	v, ok := LoadBool(ctx, s, "widgets-visible", nil)
	assert.True(t, ok)
	assert.False(t, v)

	require.NoError(t, SaveString(ctx, s, "widgets-visible", "maybe"))
	_, ok = LoadBool(ctx, s, "widgets-visible", nil)
	assert.False(t, ok)
}

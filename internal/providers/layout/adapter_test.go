package layout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/widget"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

var viewport = types.Size{Width: 1280, Height: 800}

func newStores() Stores {
	return Stores{
		Windows:   window.NewStore(),
		Widgets:   widget.NewStore(viewport),
		Wallpaper: wallpaper.NewStore(),
		Notes:     notes.NewBook(),
	}
}

func TestWritesFollowStoreChanges(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStores()

	a := New(kv)
	a.Attach(s)

	s.Windows.Open(window.Spec{ID: "about"})
	s.Windows.UpdateSize("about", types.Size{Width: 640, Height: 480})
	s.Wallpaper.Set("/wallpapers/beach.jpg", "Beach")
	s.Widgets.ToggleAll()
	s.Widgets.UpdatePosition(widget.NotesID, types.Position{X: 10, Y: 10})
	s.Notes.Add("remember")

	size, ok := a.WindowSize(ctx, "about")
	require.True(t, ok)
	assert.Equal(t, types.Size{Width: 640, Height: 480}, size)

	ref, _ := storage.LoadString(ctx, kv, KeyWallpaper, nil)
	title, _ := storage.LoadString(ctx, kv, KeyWallpaperTitle, nil)
	assert.Equal(t, "/wallpapers/beach.jpg", ref)
	assert.Equal(t, "Beach", title)

	visible, ok := storage.LoadBool(ctx, kv, KeyWidgetsVisible, nil)
	require.True(t, ok)
	assert.False(t, visible)

	var widgets []widget.Widget
	require.True(t, storage.LoadJSON(ctx, kv, KeyWidgets, &widgets, nil))
	assert.Len(t, widgets, 2)

	var saved []notes.Note
	require.True(t, storage.LoadJSON(ctx, kv, KeyNotes, &saved, nil))
	assert.Equal(t, "remember", saved[0].Content)
}

func TestSkipSuppressesSizeWrites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStores()

	a := New(kv, WithSkip(func(id string) bool { return id == "terminal" }))
	a.Attach(s)

	s.Windows.Open(window.Spec{ID: "terminal"})
	s.Windows.UpdateSize("terminal", types.Size{Width: 1280, Height: 760})

	_, ok := a.WindowSize(ctx, "terminal")
	assert.False(t, ok)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first := newStores()
	a := New(kv)
	a.Attach(first)
	first.Wallpaper.Set("/wallpapers/city.jpg", "")
	first.Widgets.ToggleVisibility(widget.SystemStatusID)
	first.Notes.Add("persisted")
	a.Detach()

	second := newStores()
	New(kv).Restore(ctx, second)

	assert.Equal(t, wallpaper.Wallpaper{ImageRef: "/wallpapers/city.jpg", Title: wallpaper.PlaceholderTitle},
		second.Wallpaper.Current())
	status, _ := second.Widgets.Get(widget.SystemStatusID)
	assert.False(t, status.Visible)
	assert.Equal(t, "persisted", second.Notes.List()[0].Content)
}

func TestRestoreFallsBackOnMalformedData(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyWidgets, []byte("{{")))
	require.NoError(t, kv.Set(ctx, KeyNotes, []byte("nope")))
	require.NoError(t, kv.Set(ctx, WindowSizeKey("about"), []byte(`{"width":-5,"height":10}`)))

	s := newStores()
	a := New(kv)
	a.Restore(ctx, s)

	assert.Equal(t, widget.Defaults(viewport), s.Widgets.List())
	assert.Equal(t, notes.WelcomeText, s.Notes.List()[0].Content)
	assert.True(t, s.Wallpaper.Current().IsDefault())

	_, ok := a.WindowSize(ctx, "about")
	assert.False(t, ok)
}

func TestDetachStopsWrites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStores()

	a := New(kv)
	a.Attach(s)
	a.Detach()
	a.Detach()

	s.Wallpaper.Set("/wallpapers/x.jpg", "X")
	_, ok := storage.LoadString(ctx, kv, KeyWallpaper, nil)
	assert.False(t, ok)
}

type failingStore struct {
	storage.Store
	writes atomic.Int32
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	f.writes.Add(1)
	return errors.New("read-only file system")
}

func TestBreakerStopsHammeringFailedBackend(t *testing.T) {
	kv := &failingStore{Store: storage.NewMemory()}
	s := newStores()

	a := New(kv)
	a.Attach(s)

	for i := 0; i < 10; i++ {
		s.Notes.Add("n")
	}

	assert.Equal(t, int32(3), kv.writes.Load())
	assert.Equal(t, resilience.StateOpen, a.Breaker().State())
}

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newManager(t *testing.T, mutate ...func(*Config)) (*Manager, *fakeClock, storage.Store) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := storage.NewMemory()
	cfg := Config{
		IdleTTL: time.Minute,
		Desktop: desktop.Options{
			SkipBoot:    true,
			ActionDelay: 10 * time.Millisecond,
			CloseDelay:  10 * time.Millisecond,
		},
		Now: clock.Now,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	m := NewManager(store, cfg)
	t.Cleanup(m.Shutdown)
	return m, clock, store
}

var viewport = types.Size{Width: 1280, Height: 800}

func TestCreateAndGet(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	assert.True(t, id.HasPrefix(s.ID, id.SessionPrefix))
	assert.Equal(t, viewport, s.Desktop().Viewport())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("sess_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsAreIsolated(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	first, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	second, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, err = first.Desktop().OpenPanel("about")
	require.NoError(t, err)
	first.Desktop().SetWallpaper("/wallpapers/forest.jpg", "Forest")

	assert.Empty(t, second.Desktop().Windows())
	assert.NotEqual(t, "Forest", second.Desktop().Wallpaper().Title)
}

func TestCloseAndList(t *testing.T) {
	m, clock, _ := newManager(t)
	ctx := context.Background()

	first, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	_, err = second.Desktop().OpenPanel("about")
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, 1, list[1].Windows)
	assert.Equal(t, 2, m.Stats().ActiveSessions)

	require.NoError(t, m.Close(first.ID))
	assert.True(t, first.Desktop().Closed())
	assert.ErrorIs(t, m.Close(first.ID), ErrSessionNotFound)
	assert.Len(t, m.List(), 1)
}

func TestMaxSessions(t *testing.T) {
	m, _, _ := newManager(t, func(c *Config) { c.MaxSessions = 1 })
	ctx := context.Background()

	s, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)

	_, err = m.Create(ctx, CreateOptions{Viewport: viewport})
	assert.ErrorIs(t, err, ErrTooManySessions)

	require.NoError(t, m.Close(s.ID))
	_, err = m.Create(ctx, CreateOptions{Viewport: viewport})
	assert.NoError(t, err)
}

func TestResumeRestoresPersistedLayout(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	s.Desktop().SetWallpaper("/wallpapers/forest.jpg", "Forest")
	_, ok := s.Desktop().AddNote("remember the milk")
	require.True(t, ok)

	// a live session is returned as is
	same, err := m.Create(ctx, CreateOptions{Viewport: viewport, Resume: s.ID})
	require.NoError(t, err)
	assert.Same(t, s, same)

	require.NoError(t, m.Close(s.ID))

	resumed, err := m.Create(ctx, CreateOptions{Viewport: viewport, Resume: s.ID})
	require.NoError(t, err)
	assert.Equal(t, s.ID, resumed.ID)
	assert.NotSame(t, s, resumed)
	assert.Equal(t, "Forest", resumed.Desktop().Wallpaper().Title)
	assert.Equal(t, "remember the milk", resumed.Desktop().Notes()[0].Content)
}

func TestResumeIgnoresForeignIDs(t *testing.T) {
	m, _, _ := newManager(t)

	s, err := m.Create(context.Background(), CreateOptions{Viewport: viewport, Resume: "../../etc"})
	require.NoError(t, err)
	assert.NotEqual(t, "../../etc", s.ID)
	assert.True(t, id.HasPrefix(s.ID, id.SessionPrefix))
}

func TestReap(t *testing.T) {
	metrics := monitoring.NewMetrics(nil)
	m, clock, _ := newManager(t, func(c *Config) { c.Metrics = metrics })
	ctx := context.Background()

	idle, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	busy, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	streaming, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	detach := streaming.Attach()

	clock.Advance(45 * time.Second)
	_, err = m.Get(busy.ID)
	require.NoError(t, err)
	assert.Zero(t, m.Reap())

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, m.Reap())

	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.True(t, idle.Desktop().Closed())
	assert.Equal(t, int64(2), metrics.Snapshot().ActiveSessions)

	// detaching makes the streaming session reapable again
	detach()
	detach()
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 2, m.Reap())
	assert.Empty(t, m.List())
}

func TestStartReapsInBackground(t *testing.T) {
	m, clock, _ := newManager(t, func(c *Config) { c.ReapInterval = 5 * time.Millisecond })

	s, err := m.Create(context.Background(), CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	m.Start()
	m.Start()

	clock.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return s.Desktop().Closed() }, time.Second, 5*time.Millisecond)
}

func TestSaveAndRestoreSnapshot(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	source, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	_, err = source.Desktop().OpenPanel("about")
	require.NoError(t, err)
	_, err = source.Desktop().OpenPanel("projects")
	require.NoError(t, err)
	require.True(t, source.Desktop().Move("about", types.Position{X: 220, Y: 140}))
	source.Desktop().SetWallpaper("/wallpapers/forest.jpg", "Forest")

	snap, err := m.Save(ctx, source.ID, "work", "two windows")
	require.NoError(t, err)
	assert.True(t, id.HasPrefix(snap.ID, id.SnapshotPrefix))
	assert.Len(t, snap.Layout.Windows, 2)
	require.NotNil(t, m.Stats().LastSaved)

	loaded, err := m.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "work", loaded.Name)
	assert.Equal(t, source.ID, loaded.SessionID)

	target, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	_, err = target.Desktop().OpenPanel("contact")
	require.NoError(t, err)

	require.NoError(t, m.Restore(ctx, target.ID, snap.ID))
	require.NotNil(t, m.Stats().LastRestored)

	var ids []string
	for _, w := range target.Desktop().Windows() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"about", "projects"}, ids)
	about, ok := target.Desktop().Window("about")
	require.True(t, ok)
	assert.Equal(t, types.Position{X: 220, Y: 140}, about.Position)
	assert.Equal(t, "Forest", target.Desktop().Wallpaper().Title)
}

func TestRestoredSnapshotPersists(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	source, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	source.Desktop().SetWallpaper("/wallpapers/forest.jpg", "Forest")
	snap, err := m.Save(ctx, source.ID, "forest", "")
	require.NoError(t, err)

	target, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	require.NoError(t, m.Restore(ctx, target.ID, snap.ID))
	require.NoError(t, m.Close(target.ID))

	resumed, err := m.Create(ctx, CreateOptions{Viewport: viewport, Resume: target.ID})
	require.NoError(t, err)
	assert.Equal(t, "Forest", resumed.Desktop().Wallpaper().Title)
}

func TestSnapshotErrors(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Save(ctx, "sess_missing", "x", "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Load(ctx, "snap_missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = m.Load(ctx, "../escape")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	s, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)
	err = m.Restore(ctx, s.ID, "snap_missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	assert.ErrorIs(t, m.DeleteSnapshot(ctx, "snap_missing"), ErrSnapshotNotFound)
}

func TestListAndDeleteSnapshots(t *testing.T) {
	m, _, store := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)

	first, err := m.Save(ctx, s.ID, "first", "")
	require.NoError(t, err)
	_, err = s.Desktop().OpenPanel("about")
	require.NoError(t, err)
	second, err := m.Save(ctx, s.ID, "second", "")
	require.NoError(t, err)

	// garbage under the snapshot namespace is skipped
	require.NoError(t, store.Set(ctx, "snapshots/snapshot-snap_broken", []byte("{not json")))

	list, err := m.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, 1, list[0].Windows)
	assert.Equal(t, first.ID, list[1].ID)

	require.NoError(t, m.DeleteSnapshot(ctx, first.ID))
	assert.ErrorIs(t, m.DeleteSnapshot(ctx, first.ID), ErrSnapshotNotFound)

	list, err = m.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Name)
}

func TestShutdownClosesSessions(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	m.Start()
	s, err := m.Create(ctx, CreateOptions{Viewport: viewport})
	require.NoError(t, err)

	m.Shutdown()
	assert.True(t, s.Desktop().Closed())
	assert.Empty(t, m.List())
	assert.Zero(t, m.Stats().ActiveSessions)
}

package interaction

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

var viewport = types.Size{Width: 1280, Height: 800}

func setup(t *testing.T, opts ...Option) (*window.Store, *Manager) {
	t.Helper()

	store := window.NewStore()
	m := NewManager(store, viewport, opts...)
	t.Cleanup(m.Close)

	pos := types.Position{X: 100, Y: 80}
	store.Open(window.Spec{ID: "terminal", Title: "Terminal", Position: &pos})
	store.Open(window.Spec{ID: "about", Title: "About Me"})
	return store, m
}

func pt(x, y int) types.Position {
	return types.Position{X: x, Y: y}
}

func TestDragFocusesAndClamps(t *testing.T) {
	store, m := setup(t)

	require.True(t, m.PointerDown("terminal", RegionTitleBar, ButtonPrimary, pt(120, 90)))
	assert.Equal(t, PhaseDragging, m.Phase("terminal"))

	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, "terminal", active.ID)

	require.True(t, m.PointerMove(pt(220, 190)))
	w, _ := store.Get("terminal")
	assert.Equal(t, pt(200, 180), w.Position)

	m.PointerMove(pt(5000, 5000))
	w, _ = store.Get("terminal")
	assert.Equal(t, pt(viewport.Width-w.Size.Width, viewport.Height-w.Size.Height), w.Position)

	m.PointerMove(pt(-5000, -5000))
	w, _ = store.Get("terminal")
	assert.Equal(t, pt(0, 0), w.Position)

	assert.True(t, m.PointerUp())
	assert.Equal(t, PhaseIdle, m.Phase("terminal"))
	assert.False(t, m.PointerMove(pt(300, 300)))
}

func TestNonPrimaryButtonIgnored(t *testing.T) {
	_, m := setup(t)

	assert.False(t, m.PointerDown("terminal", RegionTitleBar, ButtonSecondary, pt(120, 90)))
	assert.False(t, m.PointerDown("terminal", RegionControl, ButtonPrimary, pt(120, 90)))
	assert.Equal(t, PhaseIdle, m.Phase("terminal"))
	assert.Empty(t, m.Captured())
}

func TestResizeFromLeftEdge(t *testing.T) {
	store, m := setup(t)

	require.True(t, m.PointerDown("about", EdgeLeft, ButtonPrimary, pt(50, 200)))
	assert.Equal(t, PhaseResizing, m.Phase("about"))

	m.PointerMove(pt(20, 200))
	w, _ := store.Get("about")
	assert.Equal(t, pt(20, 50), w.Position)
	assert.Equal(t, types.Size{Width: 830, Height: 500}, w.Size)

	m.PointerMove(pt(2000, 200))
	w, _ = store.Get("about")
	assert.Equal(t, MinWidth, w.Size.Width)
	assert.Equal(t, 850-MinWidth, w.Position.X)

	m.PointerUp()
	assert.Equal(t, PhaseIdle, m.Phase("about"))
}

func TestGesturesAreExclusive(t *testing.T) {
	_, m := setup(t)

	m.PointerDown("about", EdgeRight, ButtonPrimary, pt(850, 100))
	m.PointerDown("terminal", RegionTitleBar, ButtonPrimary, pt(120, 90))

	assert.Equal(t, PhaseIdle, m.Phase("about"))
	assert.Equal(t, PhaseDragging, m.Phase("terminal"))
	assert.Equal(t, "terminal", m.Captured())
}

func TestToggleMaximizeRestores(t *testing.T) {
	store, m := setup(t)

	before, _ := store.Get("terminal")
	_, ok := m.RestoreRect("terminal")
	assert.False(t, ok)

	require.True(t, m.DoubleClick("terminal", RegionTitleBar))
	assert.True(t, m.IsMaximized("terminal"))
	restore, ok := m.RestoreRect("terminal")
	require.True(t, ok)
	assert.Equal(t, before.Rect(), restore)

	w, _ := store.Get("terminal")
	assert.Equal(t, Maximized(viewport, DefaultDockHeight), w.Rect())

	// drag and resize are blocked while maximized
	m.PointerDown("terminal", RegionTitleBar, ButtonPrimary, pt(10, 10))
	assert.Equal(t, PhaseIdle, m.Phase("terminal"))
	m.PointerDown("terminal", EdgeBottomRight, ButtonPrimary, pt(1280, 760))
	assert.Equal(t, PhaseIdle, m.Phase("terminal"))

	require.True(t, m.DoubleClick("terminal", RegionTitleBar))
	assert.False(t, m.IsMaximized("terminal"))
	w, _ = store.Get("terminal")
	assert.Equal(t, before.Rect(), w.Rect())
}

func TestDoubleClickOutsideTitleBar(t *testing.T) {
	_, m := setup(t)
	assert.False(t, m.DoubleClick("terminal", RegionBody))
	assert.False(t, m.IsMaximized("terminal"))
}

func TestRequestCloseRemovesAfterTransition(t *testing.T) {
	store, m := setup(t, WithCloseDelay(20*time.Millisecond))

	require.True(t, m.RequestClose("about"))
	assert.True(t, m.Flags("about").Closing)
	assert.False(t, m.RequestClose("about"))

	_, stillThere := store.Get("about")
	assert.True(t, stillThere)

	require.Eventually(t, func() bool {
		_, ok := store.Get("about")
		return !ok
	}, time.Second, 5*time.Millisecond)

	assert.False(t, m.Flags("about").Closing)
}

func TestEscapeRequestsClose(t *testing.T) {
	_, m := setup(t, WithCloseDelay(time.Hour))

	assert.False(t, m.KeyDown("about", "Enter"))
	assert.True(t, m.KeyDown("about", "Escape"))
	assert.Equal(t, 1, m.Stats().ClosingWindows)
}

func TestCloseCancelsPendingTransitions(t *testing.T) {
	store, m := setup(t, WithCloseDelay(20*time.Millisecond))

	m.PointerDown("terminal", RegionTitleBar, ButtonPrimary, pt(120, 90))
	require.True(t, m.RequestClose("about"))
	m.Close()
	m.Close()

	time.Sleep(60 * time.Millisecond)

	_, ok := store.Get("about")
	assert.True(t, ok, "close transition should have been cancelled")
	assert.Empty(t, m.Captured())
	assert.False(t, m.PointerDown("terminal", RegionTitleBar, ButtonPrimary, pt(120, 90)))
}

func TestOpeningTransition(t *testing.T) {
	var changes atomic.Int32
	store, m := setup(t,
		WithOpeningDelay(20*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)

	store.Open(window.Spec{ID: "gallery"})
	assert.True(t, m.IsTransitioning("gallery"))

	require.Eventually(t, func() bool {
		return !m.IsTransitioning("gallery")
	}, time.Second, 5*time.Millisecond)
	assert.Positive(t, changes.Load())
}

func TestStoreCloseDropsCapture(t *testing.T) {
	store, m := setup(t)

	m.PointerDown("terminal", RegionTitleBar, ButtonPrimary, pt(120, 90))
	store.Close("terminal")

	assert.Empty(t, m.Captured())
	assert.False(t, m.PointerUp())
}

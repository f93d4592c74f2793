package interaction

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/drag"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

const (
	MinWidth            = 300
	MinHeight           = 200
	DefaultDockHeight   = 40
	DefaultCloseDelay   = 150 * time.Millisecond
	DefaultOpeningDelay = 300 * time.Millisecond
)

// Button is a pointer button number as reported by the client
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Phase is the gesture state of a window
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Flags is the UI-visible interaction state of one window
type Flags struct {
	Phase     string `json:"phase"`
	Edge      Region `json:"edge,omitempty"`
	Maximized bool   `json:"maximized"`
	Closing   bool   `json:"closing"`
	Opening   bool   `json:"opening"`
}

type windowState struct {
	phase   Phase
	edge    Region
	gesture drag.Gesture
	press   types.Position
	start   types.Rect

	maximized bool
	restore   types.Rect

	closing    bool
	closeTimer *time.Timer
	opening    bool
	openTimer  *time.Timer
}

func (st *windowState) stopTimers() {
	if st.closeTimer != nil {
		st.closeTimer.Stop()
	}
	if st.openTimer != nil {
		st.openTimer.Stop()
	}
}

// Option configures a Manager
type Option func(*Manager)

// WithDockHeight sets the strip reserved below maximized windows
func WithDockHeight(height int) Option {
	return func(m *Manager) { m.dockHeight = height }
}

// WithCloseDelay sets the exit transition duration
func WithCloseDelay(d time.Duration) Option {
	return func(m *Manager) { m.closeDelay = d }
}

// WithOpeningDelay sets the entry transition duration
func WithOpeningDelay(d time.Duration) Option {
	return func(m *Manager) { m.openingDelay = d }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithOnChange registers a callback for flag changes that do not touch the store
func WithOnChange(fn func()) Option {
	return func(m *Manager) { m.onChange = fn }
}

// Manager drives drag, resize, maximize and close transitions for the
// windows of one window store
type Manager struct {
	mu      sync.Mutex
	store   *window.Store
	parent  types.Size              // Protected by mu
	states  map[string]*windowState // Protected by mu
	capture string                  // Protected by mu; window holding the pointer
	closed  bool                    // Protected by mu

	dockHeight   int
	closeDelay   time.Duration
	openingDelay time.Duration
	logger       *zap.Logger
	onChange     func()
	unsubscribe  func()
}

// NewManager creates an interaction manager over store, bounded by parent
func NewManager(store *window.Store, parent types.Size, opts ...Option) *Manager {
	m := &Manager{
		store:        store,
		parent:       parent,
		states:       make(map[string]*windowState),
		dockHeight:   DefaultDockHeight,
		closeDelay:   DefaultCloseDelay,
		openingDelay: DefaultOpeningDelay,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.unsubscribe = store.Subscribe(m.handleStoreEvent)
	return m
}

// SetViewport updates the parent bounds
func (m *Manager) SetViewport(size types.Size) {
	m.mu.Lock()
	m.parent = size
	m.mu.Unlock()
}

// Viewport returns the parent bounds
func (m *Manager) Viewport() types.Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parent
}

// PointerDown handles a press on a window region. It reports whether the
// press was consumed.
func (m *Manager) PointerDown(id string, region Region, button Button, p types.Position) bool {
	if button != ButtonPrimary || region == RegionControl {
		return false
	}

	w, ok := m.store.Get(id)
	if !ok {
		return false
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}

	st := m.state(id)
	if st.closing {
		m.mu.Unlock()
		return false
	}

	m.releaseCapture()

	switch {
	case st.maximized:
		// focus only
	case region == RegionTitleBar:
		st.phase = PhaseDragging
		st.gesture.Begin(p, w.Position)
		m.capture = id
	case region.IsEdge():
		st.phase = PhaseResizing
		st.edge = region
		st.press = p
		st.start = w.Rect()
		m.capture = id
	case region == RegionBody:
		// focus only
	default:
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	m.store.SetActive(id)
	return true
}

// PointerMove advances the running gesture, if any
func (m *Manager) PointerMove(p types.Position) bool {
	m.mu.Lock()

	id := m.capture
	if id == "" {
		m.mu.Unlock()
		return false
	}

	w, ok := m.store.Get(id)
	if !ok {
		m.releaseCapture()
		m.mu.Unlock()
		return false
	}

	st := m.states[id]
	parent := m.parent
	var apply func() bool

	switch st.phase {
	case PhaseDragging:
		pos, moved := st.gesture.Move(p, drag.BoundsFor(parent, w.Size))
		if moved {
			apply = func() bool { return m.store.UpdatePosition(id, pos) }
		}
	case PhaseResizing:
		rect := Resize(st.edge, st.start, p.Sub(st.press), parent, types.Size{Width: MinWidth, Height: MinHeight})
		apply = func() bool { return m.store.SetRect(id, rect) }
	}
	m.mu.Unlock()

	if apply == nil {
		return false
	}
	return apply()
}

// PointerUp ends the running gesture regardless of pointer location
func (m *Manager) PointerUp() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capture == "" {
		return false
	}
	m.releaseCapture()
	return true
}

// DoubleClick toggles maximize when the title bar is double-clicked
func (m *Manager) DoubleClick(id string, region Region) bool {
	if region != RegionTitleBar {
		return false
	}
	return m.ToggleMaximize(id)
}

// KeyDown handles window-level keys; Escape requests close
func (m *Manager) KeyDown(id, key string) bool {
	if key == "Escape" {
		return m.RequestClose(id)
	}
	return false
}

// ToggleMaximize maximizes a window or restores its cached geometry
func (m *Manager) ToggleMaximize(id string) bool {
	w, ok := m.store.Get(id)
	if !ok {
		return false
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}

	st := m.state(id)
	if st.closing {
		m.mu.Unlock()
		return false
	}
	if m.capture == id {
		m.releaseCapture()
	}

	var rect types.Rect
	if st.maximized {
		rect = st.restore
		st.maximized = false
	} else {
		st.restore = w.Rect()
		st.maximized = true
		rect = Maximized(m.parent, m.dockHeight)
	}
	m.mu.Unlock()

	if !m.store.SetRect(id, rect) {
		m.changed()
	}
	return true
}

// RequestClose marks a window as closing and removes it from the store
// after the exit transition
func (m *Manager) RequestClose(id string) bool {
	if _, ok := m.store.Get(id); !ok {
		return false
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}

	st := m.state(id)
	if st.closing {
		m.mu.Unlock()
		return false
	}
	if m.capture == id {
		m.releaseCapture()
	}

	st.closing = true
	st.closeTimer = time.AfterFunc(m.closeDelay, func() { m.finishClose(id) })
	m.mu.Unlock()

	m.logger.Debug("window closing", zap.String("window_id", id))
	m.changed()
	return true
}

func (m *Manager) finishClose(id string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.store.Close(id)
}

// Flags returns the interaction state of a window
func (m *Manager) Flags(id string) Flags {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[id]
	if !ok {
		return Flags{Phase: PhaseIdle.String()}
	}
	return Flags{
		Phase:     st.phase.String(),
		Edge:      st.edge,
		Maximized: st.maximized,
		Closing:   st.closing,
		Opening:   st.opening,
	}
}

// Phase returns the gesture phase of a window
func (m *Manager) Phase(id string) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.states[id]; ok {
		return st.phase
	}
	return PhaseIdle
}

// IsMaximized reports whether a window is maximized
func (m *Manager) IsMaximized(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[id]
	return ok && st.maximized
}

// RestoreRect returns the geometry a maximized window returns to
func (m *Manager) RestoreRect(id string) (types.Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[id]
	if !ok || !st.maximized {
		return types.Rect{}, false
	}
	return st.restore, true
}

// IsTransitioning reports whether a window is in its entry or exit transition
func (m *Manager) IsTransitioning(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[id]
	return ok && (st.opening || st.closing)
}

// Captured returns the window holding the pointer, or ""
func (m *Manager) Captured() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capture
}

// Stats fills interaction counters into store statistics
func (m *Manager) Stats() types.Stats {
	stats := m.store.Stats()

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, st := range m.states {
		if st.closing {
			stats.ClosingWindows++
		}
		if st.maximized {
			stats.MaximizedIDs = append(stats.MaximizedIDs, id)
		}
	}
	return stats
}

// Close cancels pending transitions, releases the capture and detaches
// from the store. It is safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for id, st := range m.states {
		st.stopTimers()
		delete(m.states, id)
	}
	m.capture = ""
	m.mu.Unlock()

	m.unsubscribe()
}

func (m *Manager) handleStoreEvent(e window.Event) {
	switch e.Kind {
	case window.EventOpened:
		m.startOpening(e.Window.ID)
	case window.EventClosed:
		m.forget(e.Window.ID)
	}
}

func (m *Manager) startOpening(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	st := m.state(id)
	if st.openTimer != nil {
		st.openTimer.Stop()
	}
	st.opening = true
	st.openTimer = time.AfterFunc(m.openingDelay, func() {
		m.mu.Lock()
		cur, ok := m.states[id]
		if m.closed || !ok || cur != st {
			m.mu.Unlock()
			return
		}
		st.opening = false
		m.mu.Unlock()
		m.changed()
	})
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.states[id]; ok {
		st.stopTimers()
		delete(m.states, id)
	}
	if m.capture == id {
		m.capture = ""
	}
}

// state returns the state for id, creating it (must hold lock)
func (m *Manager) state(id string) *windowState {
	st, ok := m.states[id]
	if !ok {
		st = &windowState{}
		m.states[id] = st
	}
	return st
}

// releaseCapture ends any running gesture (must hold lock)
func (m *Manager) releaseCapture() {
	if m.capture == "" {
		return
	}
	if st, ok := m.states[m.capture]; ok {
		st.phase = PhaseIdle
		st.edge = ""
		st.gesture.End()
	}
	m.capture = ""
}

func (m *Manager) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

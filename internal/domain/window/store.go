package window

import (
	"sync"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

// ContentRef is a handle to renderable content, resolved through the panel catalog
type ContentRef string

// Window is an open desktop window
type Window struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Icon     ContentRef     `json:"icon"`
	Content  ContentRef     `json:"content"`
	IsActive bool           `json:"is_active"`
	Position types.Position `json:"position"`
	Size     types.Size     `json:"size"`
}

// Rect returns the window geometry
func (w Window) Rect() types.Rect {
	return types.Rect{Position: w.Position, Size: w.Size}
}

var (
	DefaultPosition = types.Position{X: 50, Y: 50}
	DefaultSize     = types.Size{Width: 800, Height: 500}
)

// Spec describes a window to open. Nil geometry falls back to the defaults.
type Spec struct {
	ID       string
	Title    string
	Icon     ContentRef
	Content  ContentRef
	Position *types.Position
	Size     *types.Size
}

// EventKind identifies a store mutation
type EventKind string

const (
	EventOpened  EventKind = "opened"
	EventFocused EventKind = "focused"
	EventClosed  EventKind = "closed"
	EventMoved   EventKind = "moved"
	EventResized EventKind = "resized"
)

// Event is emitted after a mutation, outside the store lock
type Event struct {
	Kind   EventKind
	Window Window
}

// Listener receives store events
type Listener func(Event)

type subscriber struct {
	id int
	fn Listener
}

// Store holds the open windows in stacking order
type Store struct {
	mu        sync.RWMutex
	windows   []*Window    // Protected by mu; last is topmost
	listeners []subscriber // Protected by mu
	nextSub   int
	metrics   *monitoring.Metrics
}

// NewStore creates an empty window store
func NewStore() *Store {
	return &Store{}
}

// WithMetrics adds metrics tracking to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// Subscribe registers a listener and returns its cancel function
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// Open creates a window, or focuses it when the id is already open.
// Focusing leaves the stored geometry and content untouched.
func (s *Store) Open(spec Spec) Window {
	s.mu.Lock()

	if i := s.indexOf(spec.ID); i >= 0 {
		w := s.activate(i)
		s.mu.Unlock()
		s.emit(Event{Kind: EventFocused, Window: w})
		return w
	}

	pos := DefaultPosition
	if spec.Position != nil {
		pos = *spec.Position
	}
	size := DefaultSize
	if spec.Size != nil {
		size = *spec.Size
	}

	for _, w := range s.windows {
		w.IsActive = false
	}
	w := &Window{
		ID:       spec.ID,
		Title:    spec.Title,
		Icon:     spec.Icon,
		Content:  spec.Content,
		IsActive: true,
		Position: pos,
		Size:     size,
	}
	s.windows = append(s.windows, w)
	created := *w
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.WindowOpened()
	}
	s.emit(Event{Kind: EventOpened, Window: created})
	return created
}

// Close removes a window. No other window is activated.
func (s *Store) Close(id string) bool {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	removed := *s.windows[i]
	s.windows = append(s.windows[:i], s.windows[i+1:]...)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.WindowClosed()
	}
	s.emit(Event{Kind: EventClosed, Window: removed})
	return true
}

// SetActive moves a window to the top and marks it active
func (s *Store) SetActive(id string) bool {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	w := s.activate(i)
	s.mu.Unlock()

	s.emit(Event{Kind: EventFocused, Window: w})
	return true
}

// UpdatePosition replaces a window position
func (s *Store) UpdatePosition(id string, pos types.Position) bool {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	s.windows[i].Position = pos
	w := *s.windows[i]
	s.mu.Unlock()

	s.emit(Event{Kind: EventMoved, Window: w})
	return true
}

// UpdateSize replaces a window size. An identical size is not an update.
func (s *Store) UpdateSize(id string, size types.Size) bool {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 || s.windows[i].Size == size {
		s.mu.Unlock()
		return false
	}

	s.windows[i].Size = size
	w := *s.windows[i]
	s.mu.Unlock()

	s.emit(Event{Kind: EventResized, Window: w})
	return true
}

// SetRect replaces position and size in one step.
// Resizing from a left or top edge changes both together.
func (s *Store) SetRect(id string, r types.Rect) bool {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	w := s.windows[i]
	moved := w.Position != r.Position
	resized := w.Size != r.Size
	w.Position = r.Position
	w.Size = r.Size
	snapshot := *w
	s.mu.Unlock()

	if moved {
		s.emit(Event{Kind: EventMoved, Window: snapshot})
	}
	if resized {
		s.emit(Event{Kind: EventResized, Window: snapshot})
	}
	return moved || resized
}

// Get retrieves a window by id
func (s *Store) Get(id string) (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Window{}, false
	}
	return *s.windows[i], true
}

// List returns copies of all windows in stacking order
func (s *Store) List() []Window {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windows := make([]Window, len(s.windows))
	for i, w := range s.windows {
		windows[i] = *w
	}
	return windows
}

// Active returns the active window, if any
func (s *Store) Active() (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n := len(s.windows); n > 0 && s.windows[n-1].IsActive {
		return *s.windows[n-1], true
	}
	return Window{}, false
}

// Len returns the number of open windows
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}

// Stats returns store statistics
func (s *Store) Stats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{TotalWindows: len(s.windows)}
	if n := len(s.windows); n > 0 && s.windows[n-1].IsActive {
		id := s.windows[n-1].ID
		stats.ActiveWindowID = &id
	}
	return stats
}

// indexOf finds a window position (must hold lock)
func (s *Store) indexOf(id string) int {
	for i, w := range s.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// activate moves window i to the end and makes it the only active one (must hold lock)
func (s *Store) activate(i int) Window {
	w := s.windows[i]
	copy(s.windows[i:], s.windows[i+1:])
	s.windows[len(s.windows)-1] = w

	for _, other := range s.windows {
		other.IsActive = false
	}
	w.IsActive = true
	return *w
}

func (s *Store) emit(e Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

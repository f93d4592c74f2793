package widget

import (
	"sync"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

const (
	SystemStatusID = "system-status"
	NotesID        = "notes"
)

// RightInset is the distance of the initial widget column from the right edge
const RightInset = 300

// IDs lists the known widgets in layering order
var IDs = []string{SystemStatusID, NotesID}

// Widget is a desktop overlay
type Widget struct {
	ID       string         `json:"id"`
	Visible  bool           `json:"visible"`
	Position types.Position `json:"position"`
}

// EventKind identifies a widget store mutation
type EventKind string

const (
	EventToggled     EventKind = "toggled"
	EventMoved       EventKind = "moved"
	EventGateToggled EventKind = "gate_toggled"
	EventRestored    EventKind = "restored"
)

// Event carries the full widget state after a mutation
type Event struct {
	Kind       EventKind
	WidgetID   string
	Widgets    []Widget
	AllVisible bool
}

// Listener receives widget events
type Listener func(Event)

// Defaults returns the initial widget layout for a viewport
func Defaults(viewport types.Size) []Widget {
	x := viewport.Width - RightInset
	return []Widget{
		{ID: SystemStatusID, Visible: true, Position: types.Position{X: x, Y: 50}},
		{ID: NotesID, Visible: true, Position: types.Position{X: x, Y: 300}},
	}
}

// Store holds widget visibility and positions
type Store struct {
	mu         sync.RWMutex
	widgets    []Widget
	allVisible bool
	listeners  []Listener
}

// NewStore creates a store with the default layout for viewport
func NewStore(viewport types.Size) *Store {
	return &Store{
		widgets:    Defaults(viewport),
		allVisible: true,
	}
}

// Subscribe registers a listener. Widgets live as long as their desktop,
// so listeners are never removed.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// ToggleVisibility flips one widget's visibility
func (s *Store) ToggleVisibility(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.widgets[i].Visible = !s.widgets[i].Visible
	e := s.eventLocked(EventToggled, id)
	s.mu.Unlock()

	s.emit(e)
	return true
}

// ToggleAll flips the global visibility gate
func (s *Store) ToggleAll() bool {
	s.mu.Lock()
	s.allVisible = !s.allVisible
	visible := s.allVisible
	e := s.eventLocked(EventGateToggled, "")
	s.mu.Unlock()

	s.emit(e)
	return visible
}

// UpdatePosition replaces one widget's position. Callers bound it.
func (s *Store) UpdatePosition(id string, pos types.Position) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 || s.widgets[i].Position == pos {
		s.mu.Unlock()
		return false
	}
	s.widgets[i].Position = pos
	e := s.eventLocked(EventMoved, id)
	s.mu.Unlock()

	s.emit(e)
	return true
}

// Restore applies a persisted layout. Unknown ids are ignored and known
// widgets missing from saved keep their current state.
func (s *Store) Restore(saved []Widget, allVisible *bool) {
	s.mu.Lock()
	for _, w := range saved {
		if i := s.indexOf(w.ID); i >= 0 {
			s.widgets[i] = w
		}
	}
	if allVisible != nil {
		s.allVisible = *allVisible
	}
	e := s.eventLocked(EventRestored, "")
	s.mu.Unlock()

	s.emit(e)
}

// Get retrieves a widget by id
func (s *Store) Get(id string) (Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.widgets[i], true
	}
	return Widget{}, false
}

// List returns all widgets regardless of visibility
func (s *Store) List() []Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Widget(nil), s.widgets...)
}

// Visible returns the widgets that should render, honoring the global gate
func (s *Store) Visible() []Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.allVisible {
		return nil
	}
	var visible []Widget
	for _, w := range s.widgets {
		if w.Visible {
			visible = append(visible, w)
		}
	}
	return visible
}

// AllVisible reports the global visibility gate
func (s *Store) AllVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allVisible
}

func (s *Store) indexOf(id string) int {
	for i := range s.widgets {
		if s.widgets[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) eventLocked(kind EventKind, id string) Event {
	return Event{
		Kind:       kind,
		WidgetID:   id,
		Widgets:    append([]Widget(nil), s.widgets...),
		AllVisible: s.allVisible,
	}
}

func (s *Store) emit(e Event) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

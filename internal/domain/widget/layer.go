package widget

import (
	"sync"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/drag"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

// Footprint is the space a widget reserves when bounding drags
var Footprint = types.Size{Width: 300, Height: 200}

// Layer runs widget drag gestures and keeps widgets inside the desktop
type Layer struct {
	mu      sync.Mutex
	store   *Store
	desktop types.Size
	active  string
	gesture drag.Gesture
}

// NewLayer creates a widget layer bounded by desktop
func NewLayer(store *Store, desktop types.Size) *Layer {
	return &Layer{store: store, desktop: desktop}
}

// SetDesktop updates the desktop bounds
func (l *Layer) SetDesktop(size types.Size) {
	l.mu.Lock()
	l.desktop = size
	l.mu.Unlock()
}

// BeginDrag starts dragging a visible widget from pointer
func (l *Layer) BeginDrag(id string, pointer types.Position) bool {
	w, ok := l.store.Get(id)
	if !ok || !w.Visible || !l.store.AllVisible() {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.active = id
	l.gesture.Begin(pointer, w.Position)
	return true
}

// Move advances the running widget drag
func (l *Layer) Move(pointer types.Position) bool {
	l.mu.Lock()
	if l.active == "" {
		l.mu.Unlock()
		return false
	}
	id := l.active
	pos, moved := l.gesture.Move(pointer, l.bounds())
	l.mu.Unlock()

	if !moved {
		return false
	}
	return l.store.UpdatePosition(id, pos)
}

// EndDrag finishes the running widget drag
func (l *Layer) EndDrag() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.active = ""
	return l.gesture.End()
}

// Dragging returns the widget being dragged, or ""
func (l *Layer) Dragging() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Bounds returns the origin range widgets may occupy
func (l *Layer) Bounds() drag.Bounds {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bounds()
}

func (l *Layer) bounds() drag.Bounds {
	return drag.BoundsFor(l.desktop, Footprint)
}

// Place bounds pos and stores it, for callers that move widgets directly
func (l *Layer) Place(id string, pos types.Position) bool {
	return l.store.UpdatePosition(id, l.Bounds().Clamp(pos))
}

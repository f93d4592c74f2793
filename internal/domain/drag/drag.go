// Package drag provides the pointer-drag primitive shared by windows and widgets.
//
// A Gesture records the offset between the pointer and the dragged element's
// origin when the press happens; every subsequent move produces a new origin
// that keeps the same offset, clamped to Bounds.
package drag

import "github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"

// Bounds is the inclusive range an element origin may occupy
type Bounds struct {
	MinX int
	MaxX int
	MinY int
	MaxY int
}

// BoundsFor returns the origin range that keeps footprint inside parent
func BoundsFor(parent, footprint types.Size) Bounds {
	return Bounds{
		MaxX: max(0, parent.Width-footprint.Width),
		MaxY: max(0, parent.Height-footprint.Height),
	}
}

// Clamp bounds p to the range
func (b Bounds) Clamp(p types.Position) types.Position {
	return types.Position{
		X: Clamp(p.X, b.MinX, b.MaxX),
		Y: Clamp(p.Y, b.MinY, b.MaxY),
	}
}

// Clamp bounds v to [lo, hi]; lo wins when the range is empty
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Gesture tracks a single drag from press to release.
// It is not safe for concurrent use; owners serialize access.
type Gesture struct {
	active bool
	offset types.Position
	last   types.Position
}

// Begin starts a drag with the pointer at pointer and the element at origin
func (g *Gesture) Begin(pointer, origin types.Position) {
	g.active = true
	g.offset = pointer.Sub(origin)
	g.last = origin
}

// Move returns the bounded origin for the new pointer location.
// The second result is false when no drag is active or nothing moved.
func (g *Gesture) Move(pointer types.Position, bounds Bounds) (types.Position, bool) {
	if !g.active {
		return types.Position{}, false
	}

	next := bounds.Clamp(pointer.Sub(g.offset))
	if next == g.last {
		return next, false
	}
	g.last = next
	return next, true
}

// End finishes the drag; it reports whether one was active
func (g *Gesture) End() bool {
	was := g.active
	g.active = false
	g.offset = types.Position{}
	return was
}

// Active reports whether a drag is in progress
func (g *Gesture) Active() bool {
	return g.active
}

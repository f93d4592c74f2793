package interaction

import (
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/drag"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

// Region identifies the part of a window that received a press
type Region string

const (
	RegionTitleBar Region = "title-bar"
	RegionBody     Region = "body"
	RegionControl  Region = "control"

	EdgeTop         Region = "top"
	EdgeRight       Region = "right"
	EdgeBottom      Region = "bottom"
	EdgeLeft        Region = "left"
	EdgeTopLeft     Region = "top-left"
	EdgeTopRight    Region = "top-right"
	EdgeBottomLeft  Region = "bottom-left"
	EdgeBottomRight Region = "bottom-right"
)

// Edges lists the eight resize regions
var Edges = []Region{
	EdgeTop, EdgeRight, EdgeBottom, EdgeLeft,
	EdgeTopLeft, EdgeTopRight, EdgeBottomLeft, EdgeBottomRight,
}

// IsEdge reports whether r is a resize region
func (r Region) IsEdge() bool {
	left, right, top, bottom := r.sides()
	return left || right || top || bottom
}

func (r Region) sides() (left, right, top, bottom bool) {
	switch r {
	case EdgeTop:
		return false, false, true, false
	case EdgeRight:
		return false, true, false, false
	case EdgeBottom:
		return false, false, false, true
	case EdgeLeft:
		return true, false, false, false
	case EdgeTopLeft:
		return true, false, true, false
	case EdgeTopRight:
		return false, true, true, false
	case EdgeBottomLeft:
		return true, false, false, true
	case EdgeBottomRight:
		return false, true, false, true
	}
	return false, false, false, false
}

// Resize computes the geometry for a resize gesture on edge, given the
// geometry at press time and the pointer delta since the press.
// Left and top edges move the origin so the opposite edge stays put.
func Resize(edge Region, start types.Rect, delta types.Position, parent, minimum types.Size) types.Rect {
	left, right, top, bottom := edge.sides()

	x, w := resizeAxis(left, right, start.Position.X, start.Size.Width, delta.X, parent.Width, minimum.Width)
	y, h := resizeAxis(top, bottom, start.Position.Y, start.Size.Height, delta.Y, parent.Height, minimum.Height)

	return types.Rect{
		Position: types.Position{X: x, Y: y},
		Size:     types.Size{Width: w, Height: h},
	}
}

func resizeAxis(lowEdge, highEdge bool, origin, length, delta, parent, minimum int) (int, int) {
	far := origin + length

	switch {
	case highEdge:
		length += delta
	case lowEdge:
		origin = max(0, origin+delta)
		length = far - origin
	}

	length = drag.Clamp(length, minimum, max(minimum, parent))
	if lowEdge {
		origin = far - length
	}
	origin = drag.Clamp(origin, 0, parent-length)
	return origin, length
}

// Maximized returns the geometry of a maximized window: the full parent
// minus the dock strip, anchored at the origin
func Maximized(parent types.Size, dockHeight int) types.Rect {
	return types.Rect{
		Size: types.Size{Width: parent.Width, Height: max(0, parent.Height-dockHeight)},
	}
}

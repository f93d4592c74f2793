package types

// Position represents a desktop-relative point in pixels
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size represents element dimensions in pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect combines a position and a size
type Rect struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

// Add returns the component-wise sum of two positions
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the component-wise difference of two positions
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsZero reports whether both dimensions are zero
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() int {
	return r.Position.X + r.Size.Width
}

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() int {
	return r.Position.Y + r.Size.Height
}

// Stats contains window session statistics
type Stats struct {
	TotalWindows   int      `json:"total_windows"`
	ClosingWindows int      `json:"closing_windows"`
	ActiveWindowID *string  `json:"active_window_id,omitempty"`
	MaximizedIDs   []string `json:"maximized_ids,omitempty"`
}

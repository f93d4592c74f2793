package types

// CreateSessionRequest starts a desktop session. Resume names a previous
// session whose persisted layout should be restored.
type CreateSessionRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Resume string `json:"resume,omitempty"`
}

// OpenPanelRequest opens a catalog panel as a window
type OpenPanelRequest struct {
	PanelID  string    `json:"panel_id" binding:"required"`
	Position *Position `json:"position,omitempty"`
	Size     *Size     `json:"size,omitempty"`
}

// PositionRequest replaces a window or widget position
type PositionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SizeRequest replaces a window size
type SizeRequest struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"required,min=1"`
}

// ViewportRequest reports the client viewport dimensions
type ViewportRequest struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"required,min=1"`
}

// TerminalRequest carries a raw terminal input line
type TerminalRequest struct {
	Input string `json:"input"`
}

// KeyRequest carries a key name as reported by the browser ("Enter", "ArrowUp")
type KeyRequest struct {
	Key string `json:"key" binding:"required"`
}

// WallpaperRequest sets a custom wallpaper
type WallpaperRequest struct {
	ImageRef string `json:"image_ref" binding:"required"`
	Title    string `json:"title,omitempty"`
}

// NoteRequest creates or edits a note
type NoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// SnapshotRequest saves the current layout under a name
type SnapshotRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// WSMessage represents a WebSocket message from the client
type WSMessage struct {
	Type      string    `json:"type"`
	WindowID  string    `json:"window_id,omitempty"`
	WidgetID  string    `json:"widget_id,omitempty"`
	Region    string    `json:"region,omitempty"`
	Button    int       `json:"button,omitempty"`
	Pointer   *Position `json:"pointer,omitempty"`
	Key       string    `json:"key,omitempty"`
	Input     string    `json:"input,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

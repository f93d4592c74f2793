package terminal

import "time"

// ActionDelay is how long the desktop waits before applying an Action
const ActionDelay = 500 * time.Millisecond

// Style hints how a line should be rendered
type Style string

const (
	StylePlain   Style = "plain"
	StyleHeading Style = "heading"
	StyleAccent  Style = "accent"
	StyleMuted   Style = "muted"
	StyleLink    Style = "link"
	StyleError   Style = "error"
)

// Line is one line of command output
type Line struct {
	Text  string `json:"text"`
	Style Style  `json:"style,omitempty"`
}

func plain(text string) Line   { return Line{Text: text, Style: StylePlain} }
func heading(text string) Line { return Line{Text: text, Style: StyleHeading} }
func accent(text string) Line  { return Line{Text: text, Style: StyleAccent} }
func muted(text string) Line   { return Line{Text: text, Style: StyleMuted} }
func link(text string) Line    { return Line{Text: text, Style: StyleLink} }

// ActionKind identifies a desktop request raised by a command
type ActionKind string

const (
	ActionOpenPanel      ActionKind = "open_panel"
	ActionResetWallpaper ActionKind = "reset_wallpaper"
)

// Panel ids targeted by terminal actions
const (
	PanelGallery           = "gallery"
	PanelWallpaperSettings = "wallpaper-settings"
	PanelCertifications    = "certifications"
)

// Action is a typed request for the desktop
type Action struct {
	Kind  ActionKind `json:"kind"`
	Panel string     `json:"panel,omitempty"`
}

// OpenPanel requests that the desktop open a panel
func OpenPanel(id string) *Action {
	return &Action{Kind: ActionOpenPanel, Panel: id}
}

// ResetWallpaper requests the default wallpaper
func ResetWallpaper() *Action {
	return &Action{Kind: ActionResetWallpaper}
}

// Result is the outcome of interpreting one input line
type Result struct {
	// Name is the matched command keyword, or "unknown"
	Name   string
	Output []Line
	Action *Action
	// Clear replaces the scrollback with nothing and suppresses the entry
	Clear bool
}

// Entry is one scrollback item. The welcome banner has an empty Command.
type Entry struct {
	Command string `json:"command"`
	Output  []Line `json:"output"`
}

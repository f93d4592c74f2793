// Package wallpaper holds the current desktop background.
package wallpaper

import (
	"slices"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

const (
	DefaultImage     = "/wallpapers/default-wallpaper.jpg"
	DefaultTitle     = "Mountain Landscape"
	PlaceholderTitle = "Custom Wallpaper"
	ChangedMessage   = "Wallpaper changed successfully!"
	ResetMessage     = "Wallpaper reset to default"
)

// Wallpaper is an image reference with a display title. The zero value has
// no image and stands for the built-in background; it encodes both fields as
// null.
type Wallpaper struct {
	ImageRef string `json:"image_ref"`
	Title    string `json:"title"`
}

// Default returns the named default wallpaper
func Default() Wallpaper {
	return Wallpaper{ImageRef: DefaultImage, Title: DefaultTitle}
}

// IsDefault reports whether w is the named default wallpaper
func (w Wallpaper) IsDefault() bool {
	return w == Default()
}

// IsBuiltin reports whether w shows the built-in background
func (w Wallpaper) IsBuiltin() bool {
	return w.ImageRef == ""
}

func (w Wallpaper) MarshalJSON() ([]byte, error) {
	var out struct {
		ImageRef *string `json:"image_ref"`
		Title    *string `json:"title"`
	}
	if w.ImageRef != "" {
		out.ImageRef = &w.ImageRef
	}
	if w.Title != "" {
		out.Title = &w.Title
	}
	return sonic.Marshal(out)
}

// ChangeKind distinguishes user changes from restores
type ChangeKind string

const (
	ChangeSet      ChangeKind = "set"
	ChangeReset    ChangeKind = "reset"
	ChangeRestored ChangeKind = "restored"
)

// Change describes a wallpaper transition
type Change struct {
	Kind      ChangeKind
	Wallpaper Wallpaper
}

// Message returns the notification text for a user-visible change
func (c Change) Message() string {
	switch c.Kind {
	case ChangeSet:
		return ChangedMessage
	case ChangeReset:
		return ResetMessage
	}
	return ""
}

// Store holds the current wallpaper
type Store struct {
	mu        sync.RWMutex
	current   Wallpaper
	listeners []func(Change)
}

// NewStore creates a store showing the default wallpaper
func NewStore() *Store {
	return &Store{current: Default()}
}

// Subscribe registers a change listener
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Set replaces the wallpaper. An empty title becomes the placeholder.
func (s *Store) Set(imageRef, title string) Wallpaper {
	if strings.TrimSpace(title) == "" {
		title = PlaceholderTitle
	}
	return s.apply(ChangeSet, Wallpaper{ImageRef: imageRef, Title: title})
}

// Reset returns to the default wallpaper
func (s *Store) Reset() Wallpaper {
	return s.apply(ChangeReset, Default())
}

// Restore applies a persisted wallpaper without a user notification. An
// empty reference restores the built-in background.
func (s *Store) Restore(w Wallpaper) Wallpaper {
	switch {
	case w.IsBuiltin():
		w = Wallpaper{}
	case w.Title == "":
		w.Title = PlaceholderTitle
	}
	return s.apply(ChangeRestored, w)
}

// Current returns the wallpaper being shown
func (s *Store) Current() Wallpaper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) apply(kind ChangeKind, w Wallpaper) Wallpaper {
	s.mu.Lock()
	s.current = w
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	c := Change{Kind: kind, Wallpaper: w}
	for _, fn := range listeners {
		fn(c)
	}
	return w
}

// Package panel resolves window content handles.
//
// The window store keeps only a ContentRef per window. The Catalog maps
// that ref to a Panel definition loaded from the embedded panels.yaml, and
// to a Renderer that produces the content payload when a snapshot is built.
package panel

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

//go:embed panels.yaml
var builtin []byte

var (
	ErrPanelNotFound   = errors.New("panel not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// Kind groups panels by how their content is produced
type Kind string

const (
	KindTerminal       Kind = "terminal"
	KindDocument       Kind = "document"
	KindGallery        Kind = "gallery"
	KindCertifications Kind = "certifications"
	KindWallpaper      Kind = "wallpaper"
)

// Panel describes an openable window
type Panel struct {
	ID       string          `yaml:"id" json:"id"`
	Title    string          `yaml:"title" json:"title"`
	Icon     string          `yaml:"icon" json:"icon"`
	Kind     Kind            `yaml:"kind" json:"kind"`
	Dock     bool            `yaml:"dock" json:"dock"`
	Position *types.Position `yaml:"position" json:"position,omitempty"`
	Size     *types.Size     `yaml:"size" json:"size,omitempty"`
	Sections []string        `yaml:"sections" json:"sections,omitempty"`
}

// Spec converts the panel into a window open request
func (p Panel) Spec() window.Spec {
	return window.Spec{
		ID:       p.ID,
		Title:    p.Title,
		Icon:     window.ContentRef(p.Icon),
		Content:  window.ContentRef(p.ID),
		Position: p.Position,
		Size:     p.Size,
	}
}

// Profile is an external profile link
type Profile struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type document struct {
	Panels   []Panel   `yaml:"panels"`
	Profiles []Profile `yaml:"profiles"`
}

// Catalog holds panel definitions and their renderers
type Catalog struct {
	mu        sync.RWMutex
	panels    map[string]Panel
	order     []string
	profiles  map[string]Profile
	renderers map[Kind]Renderer
	panelOnly map[string]Renderer
	logger    *zap.Logger
}

// Load parses a catalog document
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse panel catalog: %w", err)
	}

	c := &Catalog{
		panels:    make(map[string]Panel, len(doc.Panels)),
		profiles:  make(map[string]Profile, len(doc.Profiles)),
		renderers: make(map[Kind]Renderer),
		panelOnly: make(map[string]Renderer),
		logger:    zap.NewNop(),
	}
	for _, p := range doc.Panels {
		if p.ID == "" {
			return nil, fmt.Errorf("panel %q: missing id", p.Title)
		}
		if _, dup := c.panels[p.ID]; dup {
			return nil, fmt.Errorf("panel %q: duplicate id", p.ID)
		}
		c.panels[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	for _, p := range doc.Profiles {
		c.profiles[p.ID] = p
	}

	c.renderers[KindDocument] = RendererFunc(renderSections)
	c.renderers[KindCertifications] = RendererFunc(renderSections)
	return c, nil
}

// Builtin returns the embedded catalog
func Builtin() *Catalog {
	c, err := Load(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// WithLogger sets the logger used for contained render failures
func (c *Catalog) WithLogger(logger *zap.Logger) *Catalog {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
	return c
}

// Lookup finds a panel by id
func (c *Catalog) Lookup(id string) (Panel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.panels[id]
	if !ok {
		return Panel{}, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	return p, nil
}

// List returns panels in catalog order
func (c *Catalog) List() []Panel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]Panel, 0, len(c.order))
	for _, id := range c.order {
		list = append(list, c.panels[id])
	}
	return list
}

// Dock returns the panels pinned to the dock
func (c *Catalog) Dock() []Panel {
	var dock []Panel
	for _, p := range c.List() {
		if p.Dock {
			dock = append(dock, p)
		}
	}
	return dock
}

// Profile finds a profile link by id
func (c *Catalog) Profile(id string) (Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p, nil
}

// Profiles returns all profile links sorted by id
func (c *Catalog) Profiles() []Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]Profile, 0, len(c.profiles))
	for _, p := range c.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Clone returns a catalog sharing the panel definitions with its own
// renderer table, so per-desktop renderers do not leak between desktops
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := &Catalog{
		panels:    c.panels,
		order:     c.order,
		profiles:  c.profiles,
		renderers: make(map[Kind]Renderer, len(c.renderers)),
		panelOnly: make(map[string]Renderer, len(c.panelOnly)),
		logger:    c.logger,
	}
	for k, r := range c.renderers {
		clone.renderers[k] = r
	}
	for id, r := range c.panelOnly {
		clone.panelOnly[id] = r
	}
	return clone
}

package desktop

import (
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/interaction"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/panel"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/widget"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/monitor"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/notify"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/wallpapers"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

// ErrClosed is returned by operations on a torn-down desktop
var ErrClosed = errors.New("desktop closed")

// WindowView is a window as the client renders it
type WindowView struct {
	window.Window
	Flags   interaction.Flags `json:"flags"`
	Content panel.Content     `json:"content"`
}

// TerminalView is the terminal panel's renderable state
type TerminalView struct {
	Prompt    string           `json:"prompt"`
	Directory string           `json:"directory"`
	Entries   []terminal.Entry `json:"entries"`
	Input     string           `json:"input"`
	Cursor    int              `json:"cursor"`
}

// WallpaperView is the wallpaper settings panel's renderable state
type WallpaperView struct {
	Current wallpaper.Wallpaper `json:"current"`
	Default wallpaper.Wallpaper `json:"default"`
	Options []wallpapers.Image  `json:"options"`
}

// Snapshot is the complete renderable state of a desktop
type Snapshot struct {
	Version        uint64                `json:"version"`
	Viewport       types.Size            `json:"viewport"`
	Windows        []WindowView          `json:"windows"`
	Dock           []panel.Panel         `json:"dock"`
	Widgets        []widget.Widget       `json:"widgets"`
	WidgetsVisible bool                  `json:"widgets_visible"`
	Wallpaper      wallpaper.Wallpaper   `json:"wallpaper"`
	Notes          []notes.Note          `json:"notes"`
	Notifications  []notify.Notification `json:"notifications"`
	Metrics        monitor.Metrics       `json:"metrics"`
	Stats          types.Stats           `json:"stats"`
}

// Snapshot captures the current state in z-order. Content is resolved per
// window; a failing renderer affects only its own window.
func (d *Desktop) Snapshot() Snapshot {
	version := d.version.Load()

	list := d.windows.List()
	views := make([]WindowView, 0, len(list))
	for _, w := range list {
		views = append(views, WindowView{
			Window:  w,
			Flags:   d.interaction.Flags(w.ID),
			Content: d.catalog.Render(w.Content),
		})
	}

	return Snapshot{
		Version:        version,
		Viewport:       d.Viewport(),
		Windows:        views,
		Dock:           d.catalog.Dock(),
		Widgets:        d.widgets.List(),
		WidgetsVisible: d.widgets.AllVisible(),
		Wallpaper:      d.wallpaper.Current(),
		Notes:          d.notes.List(),
		Notifications:  d.notices.Active(),
		Metrics:        d.monitor.Current(),
		Stats:          d.interaction.Stats(),
	}
}

// Terminal returns the terminal panel's state
func (d *Desktop) Terminal() TerminalView {
	return TerminalView{
		Prompt:    terminal.Prompt,
		Directory: terminal.WorkingDirectory,
		Entries:   d.terminal.Entries(),
		Input:     d.terminal.Input(),
		Cursor:    d.terminal.Cursor(),
	}
}

// Windows returns the open windows in z-order
func (d *Desktop) Windows() []window.Window {
	return d.windows.List()
}

// Window returns one open window
func (d *Desktop) Window(id string) (window.Window, bool) {
	return d.windows.Get(id)
}

// Notes returns the notes, newest first
func (d *Desktop) Notes() []notes.Note {
	return d.notes.List()
}

// Wallpaper returns the wallpaper being shown
func (d *Desktop) Wallpaper() wallpaper.Wallpaper {
	return d.wallpaper.Current()
}

// Widgets returns every widget and the global gate
func (d *Desktop) Widgets() ([]widget.Widget, bool) {
	return d.widgets.List(), d.widgets.AllVisible()
}

// LayoutWindow is the saved geometry of one window
type LayoutWindow struct {
	ID        string         `json:"id"`
	Position  types.Position `json:"position"`
	Size      types.Size     `json:"size"`
	Maximized bool           `json:"maximized,omitempty"`
}

// Layout is the part of a desktop a named snapshot preserves
type Layout struct {
	Windows        []LayoutWindow      `json:"windows"`
	Wallpaper      wallpaper.Wallpaper `json:"wallpaper"`
	Widgets        []widget.Widget     `json:"widgets"`
	WidgetsVisible bool                `json:"widgets_visible"`
}

// Layout captures windows in z-order with their geometry. A maximized
// window records its restore geometry.
func (d *Desktop) Layout() Layout {
	l := Layout{
		Wallpaper:      d.wallpaper.Current(),
		Widgets:        d.widgets.List(),
		WidgetsVisible: d.widgets.AllVisible(),
	}
	for _, w := range d.windows.List() {
		lw := LayoutWindow{ID: w.ID, Position: w.Position, Size: w.Size}
		if rect, ok := d.interaction.RestoreRect(w.ID); ok {
			lw.Position = rect.Position
			lw.Size = rect.Size
			lw.Maximized = true
		}
		l.Windows = append(l.Windows, lw)
	}
	return l
}

// ApplyLayout replaces the open windows with the saved ones and restores
// wallpaper and widgets. Unknown panels are skipped. The last window of the
// layout ends up active.
func (d *Desktop) ApplyLayout(l Layout) error {
	if d.isClosed() {
		return ErrClosed
	}

	d.interaction.PointerUp()
	d.layer.EndDrag()
	for _, w := range d.windows.List() {
		d.windows.Close(w.ID)
	}

	for _, lw := range l.Windows {
		p, err := d.catalog.Lookup(lw.ID)
		if err != nil {
			d.logger.Warn("Skipping unknown panel in layout", zap.String("panel", lw.ID))
			continue
		}
		spec := p.Spec()
		pos, size := lw.Position, lw.Size
		spec.Position = &pos
		if size.Width > 0 && size.Height > 0 {
			spec.Size = &size
		}
		d.windows.Open(spec)
		if lw.Maximized {
			d.interaction.ToggleMaximize(lw.ID)
		}
	}

	d.wallpaper.Restore(l.Wallpaper)
	visible := l.WidgetsVisible
	d.widgets.Restore(l.Widgets, &visible)
	return nil
}

func (d *Desktop) registerRenderers() {
	d.catalog.Register(panel.KindTerminal, panel.RendererFunc(func(panel.Panel) (any, error) {
		return d.Terminal(), nil
	}))
	d.catalog.Register(panel.KindWallpaper, panel.RendererFunc(func(panel.Panel) (any, error) {
		return WallpaperView{
			Current: d.wallpaper.Current(),
			Default: wallpaper.Default(),
			Options: d.imageList(),
		}, nil
	}))
	d.catalog.Register(panel.KindGallery, panel.RendererFunc(func(panel.Panel) (any, error) {
		return map[string]any{"images": d.imageList()}, nil
	}))
}

func (d *Desktop) imageList() []wallpapers.Image {
	if d.images == nil {
		return []wallpapers.Image{}
	}
	return d.images.List()
}

// Package desktop composes the stores of one browser tab into a desktop.
//
// A Desktop owns the window store and its interaction manager, the widget
// store and layer, the wallpaper store, the terminal session, the notes
// book, the notification center and the metric simulator. It wires them
// together, applies the terminal's typed actions, persists layout through a
// subscriber and produces renderable snapshots.
//
// Lock discipline: Desktop.mu guards only the desktop's own bookkeeping
// (timers, listeners, viewport). It is never held while calling into a
// store, because store notifications call back into the desktop.
package desktop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/drag"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/interaction"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/panel"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/widget"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/layout"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/monitor"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/notify"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/wallpapers"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

const (
	DefaultBootDelay = time.Second
	BootPanel        = "terminal"
)

// DefaultViewport is used when the client has not reported its size
var DefaultViewport = types.Size{Width: 1280, Height: 800}

// Options configures a Desktop. Zero values select the defaults.
type Options struct {
	Viewport   types.Size
	Catalog    *panel.Catalog
	Store      storage.Store
	Wallpapers *wallpapers.Catalog
	Metrics    *monitoring.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time

	BootDelay       time.Duration
	SkipBoot        bool
	ActionDelay     time.Duration
	CloseDelay      time.Duration
	NotifyTTL       time.Duration
	MetricsInterval time.Duration
}

func (o *Options) defaults() {
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = DefaultViewport
	}
	if o.Catalog == nil {
		o.Catalog = panel.Builtin()
	}
	if o.Store == nil {
		o.Store = storage.NewMemory()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.BootDelay <= 0 {
		o.BootDelay = DefaultBootDelay
	}
	if o.ActionDelay <= 0 {
		o.ActionDelay = terminal.ActionDelay
	}
	if o.CloseDelay <= 0 {
		o.CloseDelay = interaction.DefaultCloseDelay
	}
}

type listener struct {
	id int
	fn func(version uint64)
}

// Desktop is the composition root of one tab's desktop
type Desktop struct {
	catalog     *panel.Catalog
	windows     *window.Store
	interaction *interaction.Manager
	widgets     *widget.Store
	layer       *widget.Layer
	wallpaper   *wallpaper.Store
	terminal    *terminal.Session
	notes       *notes.Book
	notices     *notify.Center
	monitor     *monitor.Simulator
	layout      *layout.Adapter
	images      *wallpapers.Catalog
	metrics     *monitoring.Metrics
	logger      *zap.Logger
	actionDelay time.Duration

	version atomic.Uint64

	mu        sync.Mutex
	viewport  types.Size            // Protected by mu
	timers    map[*time.Timer]bool  // Protected by mu
	listeners []listener            // Protected by mu
	nextSub   int                   // Protected by mu
	closed    bool                  // Protected by mu
	unsubs    []func()              // Protected by mu
}

// New builds a desktop, restores its persisted layout and schedules the
// boot sequence
func New(ctx context.Context, opts Options) *Desktop {
	opts.defaults()

	d := &Desktop{
		catalog:     opts.Catalog.Clone(),
		windows:     window.NewStore().WithMetrics(opts.Metrics),
		widgets:     widget.NewStore(opts.Viewport),
		wallpaper:   wallpaper.NewStore(),
		notes:       notes.NewBook(),
		notices:     notify.NewCenter(opts.NotifyTTL),
		monitor:     monitor.NewSimulator(opts.MetricsInterval),
		images:      opts.Wallpapers,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		actionDelay: opts.ActionDelay,
		viewport:    opts.Viewport,
		timers:      make(map[*time.Timer]bool),
	}

	d.interaction = interaction.NewManager(d.windows, opts.Viewport,
		interaction.WithLogger(opts.Logger),
		interaction.WithCloseDelay(opts.CloseDelay),
		interaction.WithOnChange(d.changed))
	d.layer = widget.NewLayer(d.widgets, opts.Viewport)

	var termOpts []terminal.Option
	if opts.Clock != nil {
		termOpts = append(termOpts, terminal.WithClock(opts.Clock))
	}
	d.terminal = terminal.NewSession(terminal.NewInterpreter(termOpts...))

	d.layout = layout.New(opts.Store,
		layout.WithLogger(opts.Logger.Named("layout")),
		layout.WithMetrics(opts.Metrics),
		layout.WithSkip(func(id string) bool {
			return d.interaction.IsMaximized(id) || d.interaction.IsTransitioning(id)
		}))

	stores := layout.Stores{
		Windows:   d.windows,
		Widgets:   d.widgets,
		Wallpaper: d.wallpaper,
		Notes:     d.notes,
	}
	d.layout.Restore(ctx, stores)
	d.layout.Attach(stores)

	d.unsubs = append(d.unsubs, d.windows.Subscribe(func(window.Event) { d.changed() }))
	d.widgets.Subscribe(func(widget.Event) { d.changed() })
	d.wallpaper.Subscribe(d.onWallpaper)
	d.notes.Subscribe(func([]notes.Note) { d.changed() })
	d.notices.Subscribe(func([]notify.Notification) { d.changed() })
	d.monitor.Subscribe(func(monitor.Metrics) { d.changed() })

	d.registerRenderers()
	d.monitor.Start()

	if !opts.SkipBoot {
		d.after(opts.BootDelay, func() {
			if _, err := d.OpenPanel(BootPanel); err != nil {
				d.logger.Warn("Boot panel unavailable", zap.Error(err))
			}
		})
	}
	return d
}

// Catalog returns the desktop's panel catalog
func (d *Desktop) Catalog() *panel.Catalog {
	return d.catalog
}

// Version increases on every observable change
func (d *Desktop) Version() uint64 {
	return d.version.Load()
}

// Subscribe registers fn for coarse change notifications and returns its
// cancel function. fn runs on the goroutine that made the change and must
// not block.
func (d *Desktop) Subscribe(fn func(version uint64)) func() {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, l := range d.listeners {
				if l.id == id {
					d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Open opens a catalog panel, honouring explicit geometry in req. A panel
// that was not open yet takes its persisted size when one exists.
func (d *Desktop) Open(ctx context.Context, req types.OpenPanelRequest) (window.Window, error) {
	if d.isClosed() {
		return window.Window{}, ErrClosed
	}

	p, err := d.catalog.Lookup(req.PanelID)
	if err != nil {
		return window.Window{}, err
	}

	spec := p.Spec()
	if req.Position != nil {
		spec.Position = req.Position
	}
	if req.Size != nil {
		spec.Size = req.Size
	}

	_, existed := d.windows.Get(p.ID)
	w := d.windows.Open(spec)
	if existed || req.Size != nil {
		return w, nil
	}

	size, ok := d.layout.WindowSize(ctx, p.ID)
	if !ok {
		return w, nil
	}
	rect := d.fit(w.Position, size)
	if rect != w.Rect() && d.windows.SetRect(p.ID, rect) {
		w.Position, w.Size = rect.Position, rect.Size
	}
	return w, nil
}

// OpenPanel opens a catalog panel at its default geometry
func (d *Desktop) OpenPanel(id string) (window.Window, error) {
	return d.Open(context.Background(), types.OpenPanelRequest{PanelID: id})
}

// CloseWindow starts the exit transition of a window
func (d *Desktop) CloseWindow(id string) bool {
	return d.interaction.RequestClose(id)
}

// Focus raises a window
func (d *Desktop) Focus(id string) bool {
	return d.windows.SetActive(id)
}

// Move places a window, keeping it inside the viewport
func (d *Desktop) Move(id string, pos types.Position) bool {
	w, ok := d.windows.Get(id)
	if !ok {
		return false
	}
	return d.windows.UpdatePosition(id, drag.BoundsFor(d.Viewport(), w.Size).Clamp(pos))
}

// Resize sets a window size within the minimum and the viewport
func (d *Desktop) Resize(id string, size types.Size) bool {
	w, ok := d.windows.Get(id)
	if !ok {
		return false
	}
	return d.windows.SetRect(id, d.fit(w.Position, size))
}

// fit bounds size by the minimum and the viewport, then pulls pos back
// inside the viewport for that size.
func (d *Desktop) fit(pos types.Position, size types.Size) types.Rect {
	vp := d.Viewport()
	size.Width = drag.Clamp(size.Width, interaction.MinWidth, max(interaction.MinWidth, vp.Width))
	size.Height = drag.Clamp(size.Height, interaction.MinHeight, max(interaction.MinHeight, vp.Height))
	return types.Rect{Position: drag.BoundsFor(vp, size).Clamp(pos), Size: size}
}

// ToggleMaximize maximizes or restores a window
func (d *Desktop) ToggleMaximize(id string) bool {
	return d.interaction.ToggleMaximize(id)
}

// PointerDown routes a press on a window region
func (d *Desktop) PointerDown(id string, region interaction.Region, button interaction.Button, p types.Position) bool {
	return d.interaction.PointerDown(id, region, button, p)
}

// PointerMove advances whichever gesture holds the pointer
func (d *Desktop) PointerMove(p types.Position) bool {
	if d.layer.Dragging() != "" {
		return d.layer.Move(p)
	}
	return d.interaction.PointerMove(p)
}

// PointerUp ends every running gesture
func (d *Desktop) PointerUp() bool {
	widgetDrag := d.layer.EndDrag()
	windowDrag := d.interaction.PointerUp()
	return widgetDrag || windowDrag
}

// DoubleClick handles a double click on a window region
func (d *Desktop) DoubleClick(id string, region interaction.Region) bool {
	return d.interaction.DoubleClick(id, region)
}

// KeyDown handles a window-level key
func (d *Desktop) KeyDown(id, key string) bool {
	return d.interaction.KeyDown(id, key)
}

// WidgetDragStart starts dragging a widget
func (d *Desktop) WidgetDragStart(id string, p types.Position) bool {
	return d.layer.BeginDrag(id, p)
}

// ToggleWidget flips one widget's visibility
func (d *Desktop) ToggleWidget(id string) bool {
	return d.widgets.ToggleVisibility(id)
}

// ToggleWidgets flips the global widget gate and returns the new value
func (d *Desktop) ToggleWidgets() bool {
	return d.widgets.ToggleAll()
}

// MoveWidget places a widget inside the desktop bounds
func (d *Desktop) MoveWidget(id string, pos types.Position) bool {
	return d.layer.Place(id, pos)
}

// SetViewport updates the bounds used by drags, resizes and maximize
func (d *Desktop) SetViewport(size types.Size) bool {
	if size.Width <= 0 || size.Height <= 0 {
		return false
	}

	d.mu.Lock()
	if d.viewport == size {
		d.mu.Unlock()
		return false
	}
	d.viewport = size
	d.mu.Unlock()

	d.interaction.SetViewport(size)
	d.layer.SetDesktop(size)
	d.changed()
	return true
}

// Viewport returns the current desktop bounds
func (d *Desktop) Viewport() types.Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

// TerminalSubmit runs one terminal line. A returned action is applied
// after the action delay.
func (d *Desktop) TerminalSubmit(input string) terminal.Result {
	res := d.terminal.Submit(input)
	if res.Name == "" {
		return res
	}

	if d.metrics != nil {
		d.metrics.RecordTerminalCommand(res.Name)
	}
	if res.Action != nil {
		action := *res.Action
		d.after(d.actionDelay, func() { d.apply(action) })
	}
	d.changed()
	return res
}

// TerminalInput replaces the terminal input line
func (d *Desktop) TerminalInput(input string) {
	d.terminal.SetInput(input)
	d.changed()
}

// TerminalKey handles Enter, Tab and the history arrows. It reports whether
// the key was handled.
func (d *Desktop) TerminalKey(key string) bool {
	switch key {
	case "Enter":
		d.TerminalSubmit(d.terminal.Input())
		return true
	case "Tab":
		d.terminal.Complete()
	case "ArrowUp":
		d.terminal.HistoryUp()
	case "ArrowDown":
		d.terminal.HistoryDown()
	default:
		return false
	}
	d.changed()
	return true
}

// SetWallpaper shows a custom wallpaper
func (d *Desktop) SetWallpaper(imageRef, title string) wallpaper.Wallpaper {
	if title == "" && d.images != nil {
		if img, ok := d.images.Lookup(imageRef); ok {
			title = img.Title
		}
	}
	return d.wallpaper.Set(imageRef, title)
}

// ResetWallpaper restores the default wallpaper
func (d *Desktop) ResetWallpaper() wallpaper.Wallpaper {
	return d.wallpaper.Reset()
}

// AddNote adds a note; blank content is ignored
func (d *Desktop) AddNote(content string) (notes.Note, bool) {
	return d.notes.Add(content)
}

// EditNote replaces a note's content
func (d *Desktop) EditNote(id, content string) (notes.Note, bool) {
	return d.notes.Edit(id, content)
}

// DeleteNote removes a note
func (d *Desktop) DeleteNote(id string) bool {
	return d.notes.Delete(id)
}

// OpenProfile resolves an external profile link and announces it
func (d *Desktop) OpenProfile(id string) (panel.Profile, error) {
	p, err := d.catalog.Profile(id)
	if err != nil {
		return panel.Profile{}, err
	}
	d.notices.Show(fmt.Sprintf("Opening %s profile in a new tab", p.Name))
	return p, nil
}

// Notify shows a transient message
func (d *Desktop) Notify(message string) notify.Notification {
	return d.notices.Show(message)
}

// Dismiss hides a notification before its timeout
func (d *Desktop) Dismiss(id string) bool {
	return d.notices.Dismiss(id)
}

// RefreshMetrics samples the system-status figures now
func (d *Desktop) RefreshMetrics() monitor.Metrics {
	return d.monitor.Refresh()
}

// Stats returns window statistics
func (d *Desktop) Stats() types.Stats {
	return d.interaction.Stats()
}

// PersistenceState reports the layout persistence breaker state
func (d *Desktop) PersistenceState() string {
	return d.layout.Breaker().State().String()
}

// Close tears the desktop down: pending timers are cancelled, the pointer
// capture is released and persistence stops. It is safe to call more than
// once.
func (d *Desktop) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for t := range d.timers {
		t.Stop()
	}
	d.timers = nil
	unsubs := d.unsubs
	d.unsubs = nil
	listeners := d.listeners
	d.listeners = nil
	d.mu.Unlock()

	d.layout.Detach()
	d.interaction.Close()
	d.layer.EndDrag()
	d.notices.Close()
	d.monitor.Close()
	for _, unsub := range unsubs {
		unsub()
	}

	// release window gauges held by this desktop
	for _, w := range d.windows.List() {
		d.windows.Close(w.ID)
	}

	// subscribers learn about the teardown through Closed
	v := d.version.Add(1)
	for _, l := range listeners {
		l.fn(v)
	}
}

// Closed reports whether Close has been called
func (d *Desktop) Closed() bool {
	return d.isClosed()
}

func (d *Desktop) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Desktop) apply(action terminal.Action) {
	switch action.Kind {
	case terminal.ActionOpenPanel:
		if _, err := d.OpenPanel(action.Panel); err != nil {
			d.logger.Warn("Terminal action failed",
				zap.String("panel", action.Panel),
				zap.Error(err))
		}
	case terminal.ActionResetWallpaper:
		d.ResetWallpaper()
	default:
		d.logger.Warn("Unknown terminal action", zap.String("kind", string(action.Kind)))
	}
}

func (d *Desktop) onWallpaper(c wallpaper.Change) {
	if msg := c.Message(); msg != "" {
		d.notices.Show(msg)
	}
	d.changed()
}

// after runs fn once after delay unless the desktop closes first
func (d *Desktop) after(delay time.Duration, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		delete(d.timers, t)
		d.mu.Unlock()
		fn()
	})
	d.timers[t] = true
	return true
}

func (d *Desktop) changed() {
	v := d.version.Add(1)

	d.mu.Lock()
	listeners := append([]listener(nil), d.listeners...)
	d.mu.Unlock()

	for _, l := range listeners {
		l.fn(v)
	}
}

// Package layout persists desktop layout by listening to the stores.
//
// The stores never call persistence themselves. An Adapter subscribes to
// their change notifications and writes through to a storage.Store guarded
// by a circuit breaker; Restore reads everything back at session start,
// falling back to defaults for anything missing or malformed.
package layout

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/widget"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

// Storage keys
const (
	KeyWallpaper        = "wallpaper"
	KeyWallpaperTitle   = "wallpaperTitle"
	KeyWidgets          = "widgets"
	KeyWidgetsVisible   = "widgets-visible"
	KeyNotes            = "portfolio-notes"
	WindowSizeKeyPrefix = "window-size-"
)

const writeTimeout = 2 * time.Second

// WindowSizeKey returns the key holding a window's last size
func WindowSizeKey(id string) string {
	return WindowSizeKeyPrefix + id
}

// Stores groups the stores an Adapter follows
type Stores struct {
	Windows   *window.Store
	Widgets   *widget.Store
	Wallpaper *wallpaper.Store
	Notes     *notes.Book
}

// Adapter writes layout changes through to storage
type Adapter struct {
	store   storage.Store
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics

	// skip suppresses size writes for windows whose size is not user-chosen
	skip func(id string) bool

	mu       sync.Mutex
	unsubs   []func()
	detached atomic.Bool
}

// Option configures an Adapter
type Option func(*Adapter)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// WithBreaker replaces the default breaker
func WithBreaker(b *resilience.Breaker) Option {
	return func(a *Adapter) { a.breaker = b }
}

// WithMetrics counts writes by result
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(a *Adapter) { a.metrics = metrics }
}

// WithSkip sets the predicate for windows whose size must not be saved
func WithSkip(skip func(id string) bool) Option {
	return func(a *Adapter) { a.skip = skip }
}

// New creates an adapter writing to store
func New(store storage.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		logger: zap.NewNop(),
		skip:   func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.breaker == nil {
		logger := a.logger
		a.breaker = resilience.New("layout", resilience.Settings{
			OnStateChange: func(name string, from, to resilience.State) {
				logger.Warn("Layout persistence breaker changed state",
					zap.String("breaker", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to))
			},
		})
	}
	return a
}

// Restore loads persisted layout into the stores. Anything missing or
// malformed leaves the store at its default.
func (a *Adapter) Restore(ctx context.Context, s Stores) {
	if s.Widgets != nil {
		var saved []widget.Widget
		hasWidgets := storage.LoadJSON(ctx, a.store, KeyWidgets, &saved, a.logger)
		visible, hasVisible := storage.LoadBool(ctx, a.store, KeyWidgetsVisible, a.logger)

		if hasWidgets || hasVisible {
			var gate *bool
			if hasVisible {
				gate = &visible
			}
			s.Widgets.Restore(saved, gate)
		}
	}

	if s.Wallpaper != nil {
		if ref, ok := storage.LoadString(ctx, a.store, KeyWallpaper, a.logger); ok {
			title, _ := storage.LoadString(ctx, a.store, KeyWallpaperTitle, a.logger)
			s.Wallpaper.Restore(wallpaper.Wallpaper{ImageRef: ref, Title: title})
		}
	}

	if s.Notes != nil {
		var saved []notes.Note
		if storage.LoadJSON(ctx, a.store, KeyNotes, &saved, a.logger) {
			s.Notes.Restore(saved)
		} else {
			a.saveJSON(KeyNotes, s.Notes.List())
		}
	}
}

// WindowSize returns the persisted size of a window
func (a *Adapter) WindowSize(ctx context.Context, id string) (types.Size, bool) {
	var size types.Size
	if !storage.LoadJSON(ctx, a.store, WindowSizeKey(id), &size, a.logger) {
		return types.Size{}, false
	}
	if size.Width <= 0 || size.Height <= 0 {
		a.logger.Warn("Discarding invalid persisted window size",
			zap.String("window", id),
			zap.Int("width", size.Width),
			zap.Int("height", size.Height))
		return types.Size{}, false
	}
	return size, true
}

// Attach subscribes to the stores
func (a *Adapter) Attach(s Stores) {
	if s.Windows != nil {
		unsub := s.Windows.Subscribe(a.onWindow)
		a.mu.Lock()
		a.unsubs = append(a.unsubs, unsub)
		a.mu.Unlock()
	}
	if s.Widgets != nil {
		s.Widgets.Subscribe(a.onWidgets)
	}
	if s.Wallpaper != nil {
		s.Wallpaper.Subscribe(a.onWallpaper)
	}
	if s.Notes != nil {
		s.Notes.Subscribe(a.onNotes)
	}
}

// Detach stops writing. Stores without unsubscribe keep the listener but
// it becomes inert.
func (a *Adapter) Detach() {
	if a.detached.Swap(true) {
		return
	}

	a.mu.Lock()
	unsubs := a.unsubs
	a.unsubs = nil
	a.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// Breaker exposes the write breaker for health reporting
func (a *Adapter) Breaker() *resilience.Breaker {
	return a.breaker
}

func (a *Adapter) onWindow(e window.Event) {
	if a.detached.Load() || e.Kind != window.EventResized {
		return
	}
	if a.skip(e.Window.ID) {
		return
	}
	a.saveJSON(WindowSizeKey(e.Window.ID), e.Window.Size)
}

func (a *Adapter) onWidgets(e widget.Event) {
	if a.detached.Load() {
		return
	}
	switch e.Kind {
	case widget.EventGateToggled:
		a.saveString(KeyWidgetsVisible, strconv.FormatBool(e.AllVisible))
	case widget.EventRestored:
		a.saveJSON(KeyWidgets, e.Widgets)
		a.saveString(KeyWidgetsVisible, strconv.FormatBool(e.AllVisible))
	default:
		a.saveJSON(KeyWidgets, e.Widgets)
	}
}

func (a *Adapter) onWallpaper(c wallpaper.Change) {
	if a.detached.Load() {
		return
	}
	a.saveString(KeyWallpaper, c.Wallpaper.ImageRef)
	a.saveString(KeyWallpaperTitle, c.Wallpaper.Title)
}

func (a *Adapter) onNotes(list []notes.Note) {
	if a.detached.Load() {
		return
	}
	a.saveJSON(KeyNotes, list)
}

func (a *Adapter) saveJSON(key string, v any) {
	a.write(key, func(ctx context.Context) error {
		return storage.SaveJSON(ctx, a.store, key, v)
	})
}

func (a *Adapter) saveString(key, value string) {
	a.write(key, func(ctx context.Context) error {
		return storage.SaveString(ctx, a.store, key, value)
	})
}

func (a *Adapter) write(key string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := a.breaker.Do(func() error { return fn(ctx) })
	result := "ok"
	switch {
	case err == nil:
	case resilience.IsRejection(err):
		result = "rejected"
		a.logger.Debug("Skipping layout write while storage is unavailable", zap.String("key", key))
	default:
		result = "error"
		a.logger.Warn("Failed to persist layout", zap.String("key", key), zap.Error(err))
	}
	if a.metrics != nil {
		a.metrics.RecordStorageWrite(result)
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrTooManySessions  = errors.New("too many sessions")
)

const (
	DefaultIdleTTL      = 30 * time.Minute
	DefaultReapInterval = time.Minute

	snapshotNamespace = "snapshots"
	snapshotKeyPrefix = "snapshot-"
)

// Config controls session lifetime and the desktops sessions create
type Config struct {
	IdleTTL      time.Duration
	ReapInterval time.Duration
	// MaxSessions caps live sessions; zero means unlimited
	MaxSessions int
	// Desktop is the template for every new desktop. Viewport and Store
	// are set per session.
	Desktop desktop.Options
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
	Now     func() time.Time
}

// Session is one browser tab's desktop
type Session struct {
	ID        string
	CreatedAt time.Time

	desktop  *desktop.Desktop
	lastSeen atomic.Int64 // unix nanoseconds
	attached atomic.Int32
}

// Desktop returns the session's desktop
func (s *Session) Desktop() *desktop.Desktop {
	return s.desktop
}

// LastSeen returns the time of the last client activity
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Attach marks a long-lived client connection; attached sessions are
// never reaped. The returned func detaches.
func (s *Session) Attach() func() {
	s.attached.Add(1)
	var once sync.Once
	return func() { once.Do(func() { s.attached.Add(-1) }) }
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Info describes a live session
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	Windows   int       `json:"windows"`
	Attached  int       `json:"attached"`
}

// Stats summarizes the manager
type Stats struct {
	ActiveSessions int        `json:"active_sessions"`
	LastSaved      *time.Time `json:"last_saved,omitempty"`
	LastRestored   *time.Time `json:"last_restored,omitempty"`
}

// CreateOptions configures a new session
type CreateOptions struct {
	Viewport types.Size
	// Resume reuses a previous session id so its persisted layout is
	// restored. A live session with that id is returned as is.
	Resume string
}

// Manager owns the live sessions and the saved layout snapshots
type Manager struct {
	sessions sync.Map // id -> *Session
	store    storage.Store
	cfg      Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics

	createMu     sync.Mutex
	mu           sync.RWMutex
	lastSaved    *time.Time
	lastRestored *time.Time

	stop chan struct{}
	done chan struct{}
}

// NewManager creates a session manager persisting to store
func NewManager(store storage.Store, cfg Config) *Manager {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = DefaultReapInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Desktop.Metrics == nil {
		cfg.Desktop.Metrics = cfg.Metrics
	}
	return &Manager{
		store:   store,
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Start runs the idle reaper until Shutdown
func (m *Manager) Start() {
	m.createMu.Lock()
	defer m.createMu.Unlock()

	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(m.cfg.ReapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := m.Reap(); n > 0 {
					m.logger.Info("Reaped idle sessions", zap.Int("count", n))
				}
			}
		}
	}(m.stop, m.done)
}

// Create starts a desktop session
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*Session, error) {
	m.createMu.Lock()
	defer m.createMu.Unlock()

	sid := id.NewSessionID().String()
	if opts.Resume != "" && id.HasPrefix(opts.Resume, id.SessionPrefix) {
		if s, ok := m.lookup(opts.Resume); ok {
			s.touch(m.cfg.Now())
			return s, nil
		}
		sid = opts.Resume
	}

	if m.cfg.MaxSessions > 0 && m.count() >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, m.cfg.MaxSessions)
	}

	dopts := m.cfg.Desktop
	dopts.Viewport = opts.Viewport
	dopts.Store = storage.Namespace(m.store, sid)
	dopts.Logger = m.logger.With(zap.String("session_id", sid))

	now := m.cfg.Now()
	s := &Session{
		ID:        sid,
		CreatedAt: now,
		desktop:   desktop.New(ctx, dopts),
	}
	s.touch(now)
	m.sessions.Store(sid, s)

	if m.metrics != nil {
		m.metrics.IncSessionsCreated()
		m.metrics.SetSessionsActive(m.count())
	}
	m.logger.Info("Session created",
		zap.String("session_id", sid),
		zap.Bool("resumed", sid == opts.Resume))
	return s, nil
}

// Get returns a live session and records the activity
func (m *Manager) Get(sid string) (*Session, error) {
	s, ok := m.lookup(sid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	s.touch(m.cfg.Now())
	return s, nil
}

// Close tears a session down. Its persisted layout is kept.
func (m *Manager) Close(sid string) error {
	v, ok := m.sessions.LoadAndDelete(sid)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	v.(*Session).desktop.Close()

	if m.metrics != nil {
		m.metrics.SetSessionsActive(m.count())
	}
	m.logger.Info("Session closed", zap.String("session_id", sid))
	return nil
}

// List returns the live sessions, oldest first
func (m *Manager) List() []Info {
	var list []Info
	m.sessions.Range(func(_, value any) bool {
		s := value.(*Session)
		list = append(list, Info{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			LastSeen:  s.LastSeen(),
			Windows:   len(s.desktop.Windows()),
			Attached:  int(s.attached.Load()),
		})
		return true
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Stats returns session manager statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	lastSaved := m.lastSaved
	lastRestored := m.lastRestored
	m.mu.RUnlock()

	return Stats{
		ActiveSessions: m.count(),
		LastSaved:      lastSaved,
		LastRestored:   lastRestored,
	}
}

// Reap closes sessions idle for longer than the TTL that have no attached
// connection, and returns how many it closed
func (m *Manager) Reap() int {
	cutoff := m.cfg.Now().Add(-m.cfg.IdleTTL)

	var idle []string
	m.sessions.Range(func(key, value any) bool {
		s := value.(*Session)
		if s.attached.Load() == 0 && s.LastSeen().Before(cutoff) {
			idle = append(idle, key.(string))
		}
		return true
	})

	reaped := 0
	for _, sid := range idle {
		if m.Close(sid) == nil {
			reaped++
			if m.metrics != nil {
				m.metrics.IncSessionsReaped()
			}
		}
	}
	return reaped
}

// Shutdown stops the reaper and closes every session
func (m *Manager) Shutdown() {
	m.createMu.Lock()
	stop, done := m.stop, m.done
	m.stop = nil
	m.createMu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	m.sessions.Range(func(key, _ any) bool {
		_ = m.Close(key.(string))
		return true
	})
}

// Snapshot is a named, saved desktop layout
type Snapshot struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	SessionID   string         `json:"session_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Layout      desktop.Layout `json:"layout"`
}

// SnapshotInfo is the listing form of a Snapshot
type SnapshotInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Windows     int       `json:"windows"`
}

// ToInfo converts a snapshot to its listing form
func (s *Snapshot) ToInfo() SnapshotInfo {
	return SnapshotInfo{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		Windows:     len(s.Layout.Windows),
	}
}

// Save stores the layout of a live session under name
func (m *Manager) Save(ctx context.Context, sid, name, description string) (*Snapshot, error) {
	s, err := m.Get(sid)
	if err != nil {
		return nil, err
	}

	// Capture layout without holding any manager lock
	now := m.cfg.Now()
	snap := &Snapshot{
		ID:          id.NewSnapshotID().String(),
		Name:        name,
		Description: description,
		SessionID:   sid,
		CreatedAt:   now,
		Layout:      s.desktop.Layout(),
	}

	data, err := sonic.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := m.snapshots().Set(ctx, snapshotKey(snap.ID), data); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	m.mu.Lock()
	m.lastSaved = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSnapshotsSaved()
	}
	m.logger.Info("Snapshot saved",
		zap.String("session_id", sid),
		zap.String("snapshot_id", snap.ID),
		zap.Int("windows", len(snap.Layout.Windows)))
	return snap, nil
}

// Load reads a snapshot
func (m *Manager) Load(ctx context.Context, snapshotID string) (*Snapshot, error) {
	data, err := m.snapshots().Get(ctx, snapshotKey(snapshotID))
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, snapshotID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", snapshotID, err)
	}
	if snap.ID == "" {
		return nil, fmt.Errorf("snapshot %s has empty ID field", snapshotID)
	}
	return &snap, nil
}

// Restore applies a saved layout to a live session
func (m *Manager) Restore(ctx context.Context, sid, snapshotID string) error {
	s, err := m.Get(sid)
	if err != nil {
		return err
	}

	// Load without holding any manager lock (does I/O)
	snap, err := m.Load(ctx, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err := s.desktop.ApplyLayout(snap.Layout); err != nil {
		return fmt.Errorf("failed to apply snapshot %s: %w", snapshotID, err)
	}

	now := m.cfg.Now()
	m.mu.Lock()
	m.lastRestored = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSnapshotsRestored()
	}
	m.logger.Info("Snapshot restored",
		zap.String("session_id", sid),
		zap.String("snapshot_id", snapshotID))
	return nil
}

// Snapshots lists saved snapshots, newest first. Unreadable entries are
// skipped and logged.
func (m *Manager) Snapshots(ctx context.Context) ([]SnapshotInfo, error) {
	keys, err := m.snapshots().Keys(ctx, snapshotKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	list := make([]SnapshotInfo, 0, len(keys))
	for _, key := range keys {
		snap, err := m.Load(ctx, strings.TrimPrefix(key, snapshotKeyPrefix))
		if err != nil {
			m.logger.Warn("Skipping unreadable snapshot", zap.String("key", key), zap.Error(err))
			continue
		}
		list = append(list, snap.ToInfo())
	}
	// ULIDs sort by creation time
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

// DeleteSnapshot removes a saved snapshot
func (m *Manager) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	store := m.snapshots()
	key := snapshotKey(snapshotID)

	// Delete is idempotent in every driver, so check first
	_, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, snapshotID)
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (m *Manager) snapshots() storage.Store {
	return storage.Namespace(m.store, snapshotNamespace)
}

func (m *Manager) lookup(sid string) (*Session, bool) {
	v, ok := m.sessions.Load(sid)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (m *Manager) count() int {
	n := 0
	m.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func snapshotKey(snapshotID string) string {
	return snapshotKeyPrefix + snapshotID
}

package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window metrics, summed over every desktop
	WindowsOpen   prometheus.Gauge
	WindowsOpened prometheus.Counter

	// Terminal metrics
	TerminalCommands *prometheus.CounterVec

	// Session metrics
	SessionsActive    prometheus.Gauge
	SessionsCreated   prometheus.Counter
	SessionsReaped    prometheus.Counter
	SnapshotsSaved    prometheus.Counter
	SnapshotsRestored prometheus.Counter

	// Persistence metrics
	StorageWrites *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
	gatherer  prometheus.Gatherer

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveSessions    int64   `json:"active_sessions"`
	OpenWindows       int64   `json:"open_windows"`
	ActiveConnections int64   `json:"active_connections"`
	TerminalCommands  int64   `json:"terminal_commands"`
	AvgDurationMs     float64 `json:"avg_duration_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector registered with reg. A nil reg
// uses a fresh registry, which keeps tests independent of each other.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		gatherer:  prometheus.DefaultGatherer,

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskfolio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskfolio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskfolio_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskfolio_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskfolio_windows_open",
				Help: "Number of open windows across all desktops",
			},
		),
		WindowsOpened: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskfolio_windows_opened_total",
				Help: "Total number of windows opened",
			},
		),

		TerminalCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskfolio_terminal_commands_total",
				Help: "Total number of terminal commands by name",
			},
			[]string{"command"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskfolio_sessions_active",
				Help: "Number of live desktop sessions",
			},
		),
		SessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskfolio_sessions_created_total",
				Help: "Total number of desktop sessions created",
			},
		),
		SessionsReaped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskfolio_sessions_reaped_total",
				Help: "Total number of idle sessions closed",
			},
		),
		SnapshotsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskfolio_snapshots_saved_total",
				Help: "Total number of layout snapshots saved",
			},
		),
		SnapshotsRestored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskfolio_snapshots_restored_total",
				Help: "Total number of layout snapshots restored",
			},
		),

		StorageWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskfolio_storage_writes_total",
				Help: "Total number of key-value writes by result",
			},
			[]string{"result"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskfolio_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskfolio_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "deskfolio_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Handler serves the registered metrics in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// WindowOpened records a window added to any desktop
func (m *Metrics) WindowOpened() {
	m.WindowsOpened.Inc()
	m.WindowsOpen.Inc()
	m.mu.Lock()
	m.snapshot.OpenWindows++
	m.mu.Unlock()
}

// WindowClosed records a window removed from any desktop
func (m *Metrics) WindowClosed() {
	m.WindowsOpen.Dec()
	m.mu.Lock()
	m.snapshot.OpenWindows--
	m.mu.Unlock()
}

// RecordTerminalCommand counts one interpreted terminal command
func (m *Metrics) RecordTerminalCommand(name string) {
	if name == "" {
		return
	}
	m.TerminalCommands.WithLabelValues(name).Inc()
	m.mu.Lock()
	m.snapshot.TerminalCommands++
	m.mu.Unlock()
}

// SetSessionsActive sets the number of live sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveSessions = int64(count)
	m.mu.Unlock()
}

// IncSessionsCreated increments the sessions created counter
func (m *Metrics) IncSessionsCreated() {
	m.SessionsCreated.Inc()
}

// IncSessionsReaped increments the reaped sessions counter
func (m *Metrics) IncSessionsReaped() {
	m.SessionsReaped.Inc()
}

// IncSnapshotsSaved increments the snapshots saved counter
func (m *Metrics) IncSnapshotsSaved() {
	m.SnapshotsSaved.Inc()
}

// IncSnapshotsRestored increments the snapshots restored counter
func (m *Metrics) IncSnapshotsRestored() {
	m.SnapshotsRestored.Inc()
}

// RecordStorageWrite counts a key-value write by result ("ok", "error", "rejected")
func (m *Metrics) RecordStorageWrite(result string) {
	m.StorageWrites.WithLabelValues(result).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON stats endpoint
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgDurationMs = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

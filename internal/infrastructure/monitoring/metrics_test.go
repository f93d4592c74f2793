package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowGaugeIsShared(t *testing.T) {
	m := NewMetrics(nil)

	m.WindowOpened()
	m.WindowOpened()
	m.WindowClosed()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.WindowsOpen))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.WindowsOpened))
	assert.Equal(t, int64(1), m.Snapshot().OpenWindows)
}

func TestRecordTerminalCommand(t *testing.T) {
	m := NewMetrics(nil)

	m.RecordTerminalCommand("help")
	m.RecordTerminalCommand("help")
	m.RecordTerminalCommand("")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TerminalCommands.WithLabelValues("help")))
	assert.Equal(t, int64(2), m.Snapshot().TerminalCommands)
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(nil)

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/sessions/:sid", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/sessions/:sid", "404")))
	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.IncSessionsCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deskfolio_sessions_created_total 1")
	assert.Contains(t, w.Body.String(), "deskfolio_uptime_seconds")
}

func TestSnapshotUptime(t *testing.T) {
	m := NewMetrics(nil)
	m.startTime = time.Now().Add(-time.Minute)
	assert.GreaterOrEqual(t, m.Snapshot().UptimeSeconds, 60.0)
}

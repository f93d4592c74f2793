package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/monitor"
)

// GetMetrics returns the service counters, session stats and process
// figures as one JSON document
func (h *Handlers) GetMetrics(c *gin.Context) {
	resp := gin.H{
		"timestamp": time.Now().Unix(),
		"sessions":  h.sessions.Stats(),
		"runtime":   monitor.Runtime(),
	}
	if h.metrics != nil {
		resp["service"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// PrometheusMetrics serves the exposition format, or 404 when metrics are
// disabled
func (h *Handlers) PrometheusMetrics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "metrics disabled"})
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/panel"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/monitor"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/wallpapers"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	catalog  *panel.Catalog
	images   *wallpapers.Catalog
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a new handler set. images and metrics may be nil.
func NewHandlers(
	sessions *session.Manager,
	catalog *panel.Catalog,
	images *wallpapers.Catalog,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	if catalog == nil {
		catalog = panel.Builtin()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		sessions: sessions,
		catalog:  catalog,
		images:   images,
		metrics:  metrics,
		logger:   logger,
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "DeskFolio desktop service",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Stats(),
		"runtime":  monitor.Runtime(),
	})
}

// ListPanels lists the panel catalog and the external profiles
func (h *Handlers) ListPanels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"panels":   h.catalog.List(),
		"dock":     h.catalog.Dock(),
		"profiles": h.catalog.Profiles(),
	})
}

// ListWallpapers lists the static wallpaper images
func (h *Handlers) ListWallpapers(c *gin.Context) {
	images := []wallpapers.Image{}
	if h.images != nil {
		images = h.images.List()
	}
	c.JSON(http.StatusOK, gin.H{"wallpapers": images})
}

// session resolves :sid, writing the error response when it fails
func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	sid := c.Param("sid")
	if err := utils.ValidateID(sid, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	s, err := h.sessions.Get(sid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	if s.Desktop().Closed() {
		c.JSON(http.StatusNotFound, gin.H{"error": desktop.ErrClosed.Error()})
		return nil, false
	}
	return s, true
}

// param validates a path id, writing a 400 when it is malformed
func param(c *gin.Context, name, field string) (string, bool) {
	v := c.Param(name)
	if err := utils.ValidateID(v, field, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return v, true
}

// bind decodes a size-limited JSON body into req
func bind(c *gin.Context, req any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxJSONSize)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// bindOptional is bind for endpoints whose body may be empty
func bindOptional(c *gin.Context, req any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxJSONSize)
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func invalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handlers) log(c *gin.Context) *zap.Logger {
	return tracing.Logger(c.Request.Context(), h.logger)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/utils"
)

// CreateSession starts a desktop session for a browser tab
func (h *Handlers) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if !bindOptional(c, &req) {
		return
	}
	if req.Width < 0 || req.Height < 0 {
		invalid(c, errors.New("viewport dimensions must not be negative"))
		return
	}
	if err := utils.ValidateID(req.Resume, "resume", false); err != nil {
		invalid(c, err)
		return
	}

	s, err := h.sessions.Create(c.Request.Context(), session.CreateOptions{
		Viewport: types.Size{Width: req.Width, Height: req.Height},
		Resume:   req.Resume,
	})
	if errors.Is(err, session.ErrTooManySessions) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log(c).Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"desktop":    s.Desktop().Snapshot(),
	})
}

// ListSessions lists the live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns the full renderable desktop
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Desktop().Snapshot())
}

// CloseSession tears a session down
func (h *Handlers) CloseSession(c *gin.Context) {
	sid, ok := param(c, "sid", "session_id")
	if !ok {
		return
	}
	if err := h.sessions.Close(sid); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sid})
}

// SetViewport reports the client's desktop size
func (h *Handlers) SetViewport(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.ViewportRequest
	if !bind(c, &req) {
		return
	}

	changed := s.Desktop().SetViewport(types.Size{Width: req.Width, Height: req.Height})
	c.JSON(http.StatusOK, gin.H{
		"success":  changed,
		"viewport": s.Desktop().Viewport(),
	})
}

// SaveSnapshot stores the session's layout under a name
func (h *Handlers) SaveSnapshot(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.SnapshotRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateName(req.Name, "name"); err != nil {
		invalid(c, err)
		return
	}
	if err := utils.ValidateDescription(req.Description, "description", false); err != nil {
		invalid(c, err)
		return
	}

	snap, err := h.sessions.Save(c.Request.Context(), s.ID, req.Name, req.Description)
	if err != nil {
		h.log(c).Error("Failed to save snapshot", zap.String("session_id", s.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "snapshot": snap.ToInfo()})
}

// RestoreSnapshot applies a saved layout to the session
func (h *Handlers) RestoreSnapshot(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snapID, ok := param(c, "snap", "snapshot_id")
	if !ok {
		return
	}

	err := h.sessions.Restore(c.Request.Context(), s.ID, snapID)
	switch {
	case errors.Is(err, session.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		h.log(c).Error("Failed to restore snapshot", zap.String("snapshot_id", snapID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"desktop": s.Desktop().Snapshot(),
		})
	}
}

// ListSnapshots lists saved layouts, newest first
func (h *Handlers) ListSnapshots(c *gin.Context) {
	list, err := h.sessions.Snapshots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": list})
}

// GetSnapshot returns one saved layout
func (h *Handlers) GetSnapshot(c *gin.Context) {
	snapID, ok := param(c, "snap", "snapshot_id")
	if !ok {
		return
	}
	snap, err := h.sessions.Load(c.Request.Context(), snapID)
	if errors.Is(err, session.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DeleteSnapshot removes a saved layout
func (h *Handlers) DeleteSnapshot(c *gin.Context) {
	snapID, ok := param(c, "snap", "snapshot_id")
	if !ok {
		return
	}
	err := h.sessions.DeleteSnapshot(c.Request.Context(), snapID)
	if errors.Is(err, session.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "snapshot_id": snapID})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/utils"
)

// TerminalResult is the JSON form of one interpreted command
type TerminalResult struct {
	Command string           `json:"command"`
	Output  []terminal.Line  `json:"output"`
	Action  *terminal.Action `json:"action,omitempty"`
	Clear   bool             `json:"clear"`
}

func terminalResult(res terminal.Result) TerminalResult {
	out := res.Output
	if out == nil {
		out = []terminal.Line{}
	}
	return TerminalResult{
		Command: res.Name,
		Output:  out,
		Action:  res.Action,
		Clear:   res.Clear,
	}
}

// ListWindows lists open windows in z-order
func (h *Handlers) ListWindows(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	d := s.Desktop()
	c.JSON(http.StatusOK, gin.H{
		"windows": d.Windows(),
		"stats":   d.Stats(),
	})
}

// OpenWindow opens a catalog panel, or focuses it when already open
func (h *Handlers) OpenWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.OpenPanelRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateID(req.PanelID, "panel_id", true); err != nil {
		invalid(c, err)
		return
	}

	w, err := s.Desktop().Open(c.Request.Context(), req)
	if err != nil {
		h.log(c).Debug("Open rejected", zap.String("panel_id", req.PanelID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "window": w})
}

// CloseWindow starts a window's exit transition
func (h *Handlers) CloseWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.windowAction(c, s.Desktop().CloseWindow)
}

// FocusWindow raises a window
func (h *Handlers) FocusWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.windowAction(c, s.Desktop().Focus)
}

// MaximizeWindow toggles maximize on a window
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.windowAction(c, s.Desktop().ToggleMaximize)
}

// MoveWindow places a window
func (h *Handlers) MoveWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.PositionRequest
	if !bind(c, &req) {
		return
	}
	h.windowAction(c, func(id string) bool {
		return s.Desktop().Move(id, types.Position{X: req.X, Y: req.Y})
	})
}

// ResizeWindow sets a window's size
func (h *Handlers) ResizeWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.SizeRequest
	if !bind(c, &req) {
		return
	}
	h.windowAction(c, func(id string) bool {
		return s.Desktop().Resize(id, types.Size{Width: req.Width, Height: req.Height})
	})
}

// windowAction runs fn on :id. Unknown ids are a no-op, not an error.
func (h *Handlers) windowAction(c *gin.Context, fn func(id string) bool) {
	id, ok := param(c, "id", "window_id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": fn(id), "window_id": id})
}

// GetTerminal returns the terminal's scrollback and input line
func (h *Handlers) GetTerminal(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Desktop().Terminal())
}

// SubmitTerminal interprets one command line
func (h *Handlers) SubmitTerminal(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.TerminalRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateTerminalInput(req.Input); err != nil {
		invalid(c, err)
		return
	}

	res := s.Desktop().TerminalSubmit(req.Input)
	c.JSON(http.StatusOK, gin.H{
		"result":   terminalResult(res),
		"terminal": s.Desktop().Terminal(),
	})
}

// TerminalInput replaces the terminal input line
func (h *Handlers) TerminalInput(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.TerminalRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateTerminalInput(req.Input); err != nil {
		invalid(c, err)
		return
	}

	s.Desktop().TerminalInput(req.Input)
	c.JSON(http.StatusOK, s.Desktop().Terminal())
}

// TerminalKey handles Enter, Tab and the history arrows
func (h *Handlers) TerminalKey(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.KeyRequest
	if !bind(c, &req) {
		return
	}

	handled := s.Desktop().TerminalKey(req.Key)
	c.JSON(http.StatusOK, gin.H{
		"success":  handled,
		"terminal": s.Desktop().Terminal(),
	})
}

// ListWidgets returns the widgets and the global visibility gate
func (h *Handlers) ListWidgets(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	list, visible := s.Desktop().Widgets()
	c.JSON(http.StatusOK, gin.H{"widgets": list, "visible": visible})
}

// ToggleWidgets flips the global widget gate
func (h *Handlers) ToggleWidgets(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "visible": s.Desktop().ToggleWidgets()})
}

// ToggleWidget flips one widget's visibility
func (h *Handlers) ToggleWidget(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := param(c, "id", "widget_id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": s.Desktop().ToggleWidget(id), "widget_id": id})
}

// MoveWidget places a widget inside the desktop
func (h *Handlers) MoveWidget(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := param(c, "id", "widget_id")
	if !ok {
		return
	}
	var req types.PositionRequest
	if !bind(c, &req) {
		return
	}
	moved := s.Desktop().MoveWidget(id, types.Position{X: req.X, Y: req.Y})
	c.JSON(http.StatusOK, gin.H{"success": moved, "widget_id": id})
}

// GetWallpaper returns the current wallpaper
func (h *Handlers) GetWallpaper(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Desktop().Wallpaper())
}

// SetWallpaper shows a custom wallpaper
func (h *Handlers) SetWallpaper(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.WallpaperRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateImageRef(req.ImageRef); err != nil {
		invalid(c, err)
		return
	}
	if err := utils.ValidateTitle(req.Title); err != nil {
		invalid(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Desktop().SetWallpaper(req.ImageRef, req.Title))
}

// ResetWallpaper restores the default wallpaper
func (h *Handlers) ResetWallpaper(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Desktop().ResetWallpaper())
}

// ListNotes returns the notes, newest first
func (h *Handlers) ListNotes(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": s.Desktop().Notes()})
}

// AddNote adds a note. Blank content is ignored.
func (h *Handlers) AddNote(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req types.NoteRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateNote(req.Content); err != nil {
		invalid(c, err)
		return
	}

	note, added := s.Desktop().AddNote(req.Content)
	if !added {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "note": note})
}

// EditNote replaces a note's content
func (h *Handlers) EditNote(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := param(c, "id", "note_id")
	if !ok {
		return
	}
	var req types.NoteRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateNote(req.Content); err != nil {
		invalid(c, err)
		return
	}

	note, edited := s.Desktop().EditNote(id, req.Content)
	if !edited {
		c.JSON(http.StatusOK, gin.H{"success": false, "note_id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "note": note})
}

// DeleteNote removes a note
func (h *Handlers) DeleteNote(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := param(c, "id", "note_id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": s.Desktop().DeleteNote(id), "note_id": id})
}

// OpenProfile resolves an external profile link for the client to open
func (h *Handlers) OpenProfile(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := param(c, "id", "profile_id")
	if !ok {
		return
	}

	p, err := s.Desktop().OpenProfile(id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": p})
}

// DismissNotification hides a notification early
func (h *Handlers) DismissNotification(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := param(c, "id", "notification_id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": s.Desktop().Dismiss(id), "notification_id": id})
}

// RefreshMetrics samples the system-status widget now
func (h *Handlers) RefreshMetrics(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Desktop().RefreshMetrics())
}

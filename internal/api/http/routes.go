package http

import "github.com/gin-gonic/gin"

// Register mounts every REST route on router. stream, when non-nil, serves
// the per-session WebSocket.
func Register(router gin.IRouter, h *Handlers, stream gin.HandlerFunc) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	router.GET("/metrics", h.PrometheusMetrics)
	router.GET("/metrics/json", h.GetMetrics)
	router.POST("/logs", h.StreamLogs)

	router.GET("/catalog/panels", h.ListPanels)
	router.GET("/catalog/wallpapers", h.ListWallpapers)

	// Sessions
	router.POST("/sessions", h.CreateSession)
	router.GET("/sessions", h.ListSessions)

	s := router.Group("/sessions/:sid")
	s.GET("", h.GetSession)
	s.DELETE("", h.CloseSession)
	s.PUT("/viewport", h.SetViewport)

	// Windows
	s.GET("/windows", h.ListWindows)
	s.POST("/windows", h.OpenWindow)
	s.DELETE("/windows/:id", h.CloseWindow)
	s.POST("/windows/:id/focus", h.FocusWindow)
	s.POST("/windows/:id/maximize", h.MaximizeWindow)
	s.PUT("/windows/:id/position", h.MoveWindow)
	s.PUT("/windows/:id/size", h.ResizeWindow)

	// Terminal
	s.GET("/terminal", h.GetTerminal)
	s.POST("/terminal", h.SubmitTerminal)
	s.PUT("/terminal/input", h.TerminalInput)
	s.POST("/terminal/key", h.TerminalKey)

	// Widgets
	s.GET("/widgets", h.ListWidgets)
	s.POST("/widgets/toggle", h.ToggleWidgets)
	s.POST("/widgets/:id/toggle", h.ToggleWidget)
	s.PUT("/widgets/:id/position", h.MoveWidget)

	// Wallpaper
	s.GET("/wallpaper", h.GetWallpaper)
	s.PUT("/wallpaper", h.SetWallpaper)
	s.DELETE("/wallpaper", h.ResetWallpaper)

	// Notes
	s.GET("/notes", h.ListNotes)
	s.POST("/notes", h.AddNote)
	s.PUT("/notes/:id", h.EditNote)
	s.DELETE("/notes/:id", h.DeleteNote)

	s.POST("/profiles/:id", h.OpenProfile)
	s.DELETE("/notifications/:id", h.DismissNotification)
	s.POST("/metrics/refresh", h.RefreshMetrics)

	// Snapshots
	s.POST("/snapshots", h.SaveSnapshot)
	s.POST("/snapshots/:snap/restore", h.RestoreSnapshot)
	router.GET("/snapshots", h.ListSnapshots)
	router.GET("/snapshots/:snap", h.GetSnapshot)
	router.DELETE("/snapshots/:snap", h.DeleteSnapshot)

	if stream != nil {
		s.GET("/stream", stream)
	}
}

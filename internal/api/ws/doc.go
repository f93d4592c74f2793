// Package ws streams a desktop session over a WebSocket.
//
// One connection is bound to one session. The server pushes a full
// snapshot whenever the desktop changes and the client sends input intents.
//
// Message Types (Client → Server):
//   - pointer_down, pointer_move, pointer_up: window gestures
//   - double_click, key_down: window shortcuts
//   - widget_drag_start, widget_drag_move, widget_drag_end: widget drags
//   - terminal_submit, terminal_input, terminal_key: terminal panel
//   - viewport: client resized
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - snapshot: complete renderable desktop
//   - terminal_result: output of a submitted command
//   - pong, error
//   - closed: the session was torn down
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions, metrics, logger)
//	router.GET("/sessions/:sid/stream", handler.HandleConnection)
package ws

// Package interaction implements pointer-driven window mechanics.
//
// Every window has a small state machine:
//
//	Idle -> Dragging -> Idle
//	Idle -> Resizing(edge) -> Idle
//
// The two gestures are mutually exclusive. A primary-button press on the
// title bar starts a drag and focuses the window; a press on one of the
// eight edge or corner regions starts a resize. Pointer-up ends whatever
// gesture is running no matter where the pointer is, because the Manager
// holds a single desktop-wide capture rather than per-element listeners.
//
// Maximized is a separate meta-state toggled by double-clicking the title
// bar. It caches the previous geometry and blocks drag and resize until it
// is toggled off.
//
// Closing is a UI flag: RequestClose marks the window and removes it from
// the window store only after the exit transition elapses. Close cancels
// every pending transition and releases the capture.
package interaction

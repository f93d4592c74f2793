// Package session manages desktop sessions and saved layout snapshots.
//
// Every browser tab owns one Session wrapping a desktop.Desktop. Sessions
// never share state; each desktop persists its layout under its own
// storage namespace (<session id>/...), so a tab that resumes with its
// previous id gets its layout back.
//
// Components:
//   - Manager: session lifecycle, idle reaping and snapshot persistence
//   - Snapshot: a named layout (windows with geometry, wallpaper, widgets)
//
// Restoration Process:
//  1. Load the snapshot JSON from storage
//  2. Close every open window of the target desktop
//  3. Reopen the saved panels in z-order with their geometry
//  4. Re-maximize windows saved maximized
//  5. Apply wallpaper and widget layout
//
// Example Usage:
//
//	manager := session.NewManager(store, session.Config{IdleTTL: 30 * time.Minute})
//	manager.Start()
//	s, err := manager.Create(ctx, session.CreateOptions{Viewport: viewport})
//	snap, err := manager.Save(ctx, s.ID, "Work", "")
//	err = manager.Restore(ctx, s.ID, snap.ID)
package session

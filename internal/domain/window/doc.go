// Package window holds the ordered collection of open desktop windows.
//
// The slice order is the stacking order: the last element is topmost.
// Any operation that activates a window physically moves it to the end,
// so the active window (if any) is always last and at most one window is
// active at a time.
//
// Operations on unknown ids are silent no-ops. Closing a window never
// activates another one; callers decide what to focus next.
//
// Persistence is not part of the store. Interested parties subscribe to
// change events and write through on their own:
//
//	store := window.NewStore()
//	unsubscribe := store.Subscribe(func(e window.Event) {
//	    if e.Kind == window.EventResized {
//	        persist(e.Window.ID, e.Window.Size)
//	    }
//	})
//	defer unsubscribe()
package window

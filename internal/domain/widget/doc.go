// Package widget manages the fixed set of desktop widgets.
//
// The Store never adds or removes widgets: it only flips visibility and
// replaces positions. Initial positions come from the viewport passed at
// construction, so nothing reads ambient screen state.
//
// Bounding a widget inside the desktop is the Layer's job, not the
// Store's. The Layer runs drag gestures with the same primitive used for
// windows, without resizing.
package widget

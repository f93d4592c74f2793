// Package terminal implements the command interpreter behind the terminal
// panel and the per-tab session that holds its scrollback and history.
//
// Interpret is a pure mapping from an input line to a Result. Commands with
// side effects on the desktop never touch a store: they return an Action
// that the desktop pattern-matches on and applies after ActionDelay.
//
// Session is the stateful half. It records entries and command history,
// and it handles tab completion and arrow-key history browsing.
package terminal

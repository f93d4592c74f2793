package terminal

import (
	"strings"
	"sync"
)

const (
	// MaxEntries bounds the scrollback
	MaxEntries = 100
	// MaxHistory bounds the command history used for arrow navigation
	MaxHistory = 20
)

// Session is one terminal panel's state
type Session struct {
	mu          sync.Mutex
	interpreter *Interpreter
	entries     []Entry
	history     []string // most recent first
	cursor      int
	input       string
}

// NewSession creates a session that starts with the welcome banner
func NewSession(interpreter *Interpreter) *Session {
	if interpreter == nil {
		interpreter = NewInterpreter()
	}
	return &Session{
		interpreter: interpreter,
		entries:     []Entry{Banner()},
		cursor:      -1,
	}
}

// Submit runs raw and records it. Blank input is ignored and returns a zero
// Result. The input line is cleared.
func (s *Session) Submit(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{}
	}

	res := s.interpreter.Interpret(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]string{trimmed}, s.history...)
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}
	s.cursor = -1
	s.input = ""

	if res.Clear {
		s.entries = nil
		return res
	}
	s.appendLocked(Entry{Command: raw, Output: res.Output})
	return res
}

// Complete applies tab completion to the current input. A unique match
// replaces the input; several matches append a listing and keep the input.
// It returns the matches.
func (s *Session) Complete() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := Complete(s.input)
	switch {
	case len(matches) == 1:
		s.input = matches[0]
	case len(matches) > 1:
		s.appendLocked(Entry{
			Command: s.input,
			Output:  []Line{plain("Available completions:"), accent(strings.Join(matches, "  "))},
		})
	}
	return matches
}

// HistoryUp moves toward older commands
func (s *Session) HistoryUp() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) > 0 && s.cursor < len(s.history)-1 {
		s.cursor++
		s.input = s.history[s.cursor]
	}
	return s.input
}

// HistoryDown moves toward newer commands, clearing the input past the newest
func (s *Session) HistoryDown() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.cursor > 0:
		s.cursor--
		s.input = s.history[s.cursor]
	case s.cursor == 0:
		s.cursor = -1
		s.input = ""
	}
	return s.input
}

// SetInput replaces the input line as the user types
func (s *Session) SetInput(input string) {
	s.mu.Lock()
	s.input = input
	s.mu.Unlock()
}

// Input returns the current input line
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Entries returns a copy of the scrollback
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// History returns the command history, most recent first
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Cursor returns the history cursor; -1 means not browsing
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Session) appendLocked(e Entry) {
	s.entries = append(s.entries, e)
	if over := len(s.entries) - MaxEntries; over > 0 {
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
}

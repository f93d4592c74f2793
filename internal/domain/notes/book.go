// Package notes keeps the quick-notes widget's records.
package notes

import (
	"html"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// WelcomeText is the note shown when nothing was persisted
const WelcomeText = "Welcome to your notes widget! Add quick thoughts and reminders here."

// Note is a single quick note
type Note struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// Book holds notes, newest first
type Book struct {
	mu        sync.RWMutex
	notes     []Note
	policy    *bluemonday.Policy
	now       func() time.Time
	listeners []func([]Note)
}

// NewBook creates a book holding the welcome note
func NewBook() *Book {
	b := &Book{
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
	b.notes = []Note{b.newNote(WelcomeText)}
	return b
}

// Subscribe registers a listener called with the full list after changes
func (b *Book) Subscribe(fn func([]Note)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Add prepends a note. Blank content is ignored.
func (b *Book) Add(content string) (Note, bool) {
	content = b.clean(content)
	if content == "" {
		return Note{}, false
	}

	n := b.newNote(content)
	b.mu.Lock()
	b.notes = append([]Note{n}, b.notes...)
	b.mu.Unlock()

	b.emit()
	return n, true
}

// Edit replaces a note's content and stamps it with the current time
func (b *Book) Edit(id, content string) (Note, bool) {
	content = b.clean(content)

	b.mu.Lock()
	for i := range b.notes {
		if b.notes[i].ID == id {
			b.notes[i].Content = content
			b.notes[i].Date = b.now()
			n := b.notes[i]
			b.mu.Unlock()

			b.emit()
			return n, true
		}
	}
	b.mu.Unlock()
	return Note{}, false
}

// Delete removes a note
func (b *Book) Delete(id string) bool {
	b.mu.Lock()
	for i := range b.notes {
		if b.notes[i].ID == id {
			b.notes = append(b.notes[:i:i], b.notes[i+1:]...)
			b.mu.Unlock()

			b.emit()
			return true
		}
	}
	b.mu.Unlock()
	return false
}

// Restore replaces all notes with a persisted list. Notes without an id get one.
func (b *Book) Restore(saved []Note) {
	restored := make([]Note, 0, len(saved))
	for _, n := range saved {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		n.Content = b.clean(n.Content)
		restored = append(restored, n)
	}

	b.mu.Lock()
	b.notes = restored
	b.mu.Unlock()
}

// List returns the notes, newest first
func (b *Book) List() []Note {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Note(nil), b.notes...)
}

// Len returns the number of notes
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.notes)
}

func (b *Book) newNote(content string) Note {
	return Note{ID: uuid.New().String(), Content: content, Date: b.now()}
}

// clean strips markup and surrounding whitespace
func (b *Book) clean(content string) string {
	return strings.TrimSpace(html.UnescapeString(b.policy.Sanitize(content)))
}

func (b *Book) emit() {
	b.mu.RLock()
	notes := append([]Note(nil), b.notes...)
	listeners := slices.Clone(b.listeners)
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(notes)
	}
}

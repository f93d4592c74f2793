// Package notify is the desktop's transient message surface.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultTTL is how long a notification stays visible
const DefaultTTL = 3 * time.Second

// Notification is a transient message
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center shows notifications and dismisses them after a TTL
type Center struct {
	ttl time.Duration

	mu        sync.Mutex
	active    []Notification
	timers    map[string]*time.Timer
	listeners []func([]Notification)
	closed    bool
}

// NewCenter creates a notification center
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// Subscribe registers a listener for changes to the active set
func (c *Center) Subscribe(fn func([]Notification)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Show displays message; it is fire-and-forget
func (c *Center) Show(message string) Notification {
	n := Notification{
		ID:        ulid.Make().String(),
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.active = append(c.active, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	c.mu.Unlock()

	c.emit()
	return n
}

// Dismiss removes a notification early
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	idx := -1
	for i, n := range c.active {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.active = append(c.active[:idx:idx], c.active[idx+1:]...)
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	c.emit()
	return true
}

// Active returns the visible notifications, oldest first
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.active...)
}

// Close cancels pending dismissals and drops everything
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.active = nil
}

func (c *Center) emit() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	active := append([]Notification(nil), c.active...)
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(active)
	}
}

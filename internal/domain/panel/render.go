package panel

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
)

// Content is the payload a client renders inside a window
type Content struct {
	Panel string `json:"panel"`
	Kind  Kind   `json:"kind"`
	Body  any    `json:"body,omitempty"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the renderer could not produce the content
func (c Content) Failed() bool {
	return c.Error != ""
}

// Renderer produces content for a panel
type Renderer interface {
	Render(p Panel) (any, error)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(p Panel) (any, error)

// Render calls f
func (f RendererFunc) Render(p Panel) (any, error) {
	return f(p)
}

// Register sets the renderer for every panel of a kind
func (c *Catalog) Register(kind Kind, r Renderer) {
	c.mu.Lock()
	c.renderers[kind] = r
	c.mu.Unlock()
}

// RegisterPanel sets a renderer for one panel, taking precedence over its kind
func (c *Catalog) RegisterPanel(id string, r Renderer) {
	c.mu.Lock()
	c.panelOnly[id] = r
	c.mu.Unlock()
}

// Render resolves a window's content. Failures, including panics, are
// contained to the returned Content and never propagate.
func (c *Catalog) Render(ref window.ContentRef) (content Content) {
	id := string(ref)
	content.Panel = id

	p, err := c.Lookup(id)
	if err != nil {
		content.Error = err.Error()
		return content
	}
	content.Kind = p.Kind

	c.mu.RLock()
	r, ok := c.panelOnly[id]
	if !ok {
		r, ok = c.renderers[p.Kind]
	}
	logger := c.logger
	c.mu.RUnlock()

	if !ok {
		return content
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Panel renderer panicked",
				zap.String("panel", id),
				zap.Any("panic", rec))
			content.Body = nil
			content.Error = fmt.Sprintf("panel %s failed to render", id)
		}
	}()

	body, err := r.Render(p)
	if err != nil {
		logger.Warn("Panel renderer failed",
			zap.String("panel", id),
			zap.Error(err))
		content.Error = fmt.Sprintf("panel %s failed to render", id)
		return content
	}
	content.Body = body
	return content
}

func renderSections(p Panel) (any, error) {
	return map[string]any{"sections": p.Sections}, nil
}

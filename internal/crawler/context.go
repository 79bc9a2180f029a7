package crawler

import (
	"sync"

	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/rs/zerolog"
)

// Context is what a request handler sees for one attempt
type Context struct {
	Request *Request
	Page    *engine.Page
	Log     zerolog.Logger

	mu     sync.Mutex
	staged []string
}

// NewContext builds a handler Context for req and its navigated page
func NewContext(req *Request, page *engine.Page, logger zerolog.Logger) *Context {
	return &Context{
		Request: req,
		Page:    page,
		Log:     logger,
	}
}

func (c *Context) stage(u string) {
	c.mu.Lock()
	c.staged = append(c.staged, u)
	c.mu.Unlock()
}

// Enqueued returns the links staged so far by EnqueueLinks
func (c *Context) Enqueued() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.staged))
	copy(out, c.staged)
	return out
}

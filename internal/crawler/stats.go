package crawler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Stats summarizes a finished crawl
type Stats struct {
	Finished int           // requests whose handler succeeded
	Failed   int           // requests that exhausted their retries
	Retries  int           // attempts beyond the first, over all requests
	Enqueued int           // unique requests accepted by the frontier, seeds included
	Duration time.Duration
}

// MarshalZerologObject lets Stats be logged with Dict/Object
func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("requests_finished", s.Finished).
		Int("requests_failed", s.Failed).
		Int("retries", s.Retries).
		Int("enqueued", s.Enqueued).
		Dur("duration", s.Duration)
}

type statsCounter struct {
	mu sync.Mutex
	s  Stats
}

func (c *statsCounter) update(fn func(s *Stats)) {
	c.mu.Lock()
	fn(&c.s)
	c.mu.Unlock()
}

func (c *statsCounter) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

// Package crawler runs the crawl loop: a deduplicating FIFO frontier drained by
// a bounded worker pool, with per-request retries and a final failure hook.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/ratelimit"
	"github.com/law-makers/shopcrawl/internal/reqctx"
	"github.com/law-makers/shopcrawl/internal/retry"
	"github.com/rs/zerolog/log"
)

// RequestHandler processes one navigated page. A non-nil error fails the attempt.
type RequestHandler func(ctx context.Context, cc *Context) error

// FailedRequestHandler is called once for a request that used up its retries
type FailedRequestHandler func(ctx context.Context, req *Request, err error)

// Options configures a Crawler
type Options struct {
	RequestHandler       RequestHandler
	FailedRequestHandler FailedRequestHandler
	Navigator            engine.Navigator
	Limiter              ratelimit.RateLimiter // optional

	MaxConcurrency      int           // <= 0 picks OptimalConcurrency()
	MaxRequestRetries   int           // retries after the first attempt
	RetryBackoff        time.Duration // wait before the first retry, doubled each time
	RequestTimeout      time.Duration // budget of one attempt, navigation and handler; 0 = none
	MaxRequestsPerCrawl int           // 0 = unlimited

	// OnRequestDone is called after a request finished or failed for good
	OnRequestDone func(req *Request, err error)
}

// Crawler drives the frontier through the request handler
type Crawler struct {
	opts     Options
	frontier *frontier
	stats    statsCounter
	retryCfg retry.Config
}

// New validates opts and creates a Crawler with an empty frontier
func New(opts Options) (*Crawler, error) {
	if opts.Navigator == nil {
		return nil, errors.New("crawler: navigator is required")
	}
	if opts.RequestHandler == nil {
		return nil, errors.New("crawler: request handler is required")
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = OptimalConcurrency()
	}
	if opts.MaxRequestRetries < 0 {
		opts.MaxRequestRetries = 0
	}
	if opts.MaxRequestsPerCrawl < 0 {
		opts.MaxRequestsPerCrawl = 0
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = opts.MaxRequestRetries + 1
	retryCfg.InitialBackoff = opts.RetryBackoff

	return &Crawler{
		opts:     opts,
		frontier: newFrontier(opts.MaxRequestsPerCrawl),
		retryCfg: retryCfg,
	}, nil
}

// AddRequests puts seed URLs into the frontier.
// It returns how many were new; an invalid URL aborts with an error.
func (c *Crawler) AddRequests(urls ...string) (int, error) {
	reqs := make([]*Request, 0, len(urls))
	for _, u := range urls {
		r, err := NewRequest(u)
		if err != nil {
			return 0, err
		}
		reqs = append(reqs, r)
	}
	added := c.frontier.add(reqs...)
	c.stats.update(func(s *Stats) { s.Enqueued += added })
	return added, nil
}

// Run processes requests until the frontier is exhausted or ctx is cancelled.
// On cancellation in-flight attempts are abandoned and ctx.Err() is returned.
func (c *Crawler) Run(ctx context.Context) (Stats, error) {
	start := time.Now()

	stop := context.AfterFunc(ctx, c.frontier.close)
	defer stop()

	log.Debug().
		Str("navigator", c.opts.Navigator.Name()).
		Int("concurrency", c.opts.MaxConcurrency).
		Int("max_retries", c.opts.MaxRequestRetries).
		Int("queued", c.frontier.pending()).
		Msg("Starting crawl")

	sem := make(chan struct{}, c.opts.MaxConcurrency)
	var wg sync.WaitGroup

	for {
		sem <- struct{}{} // Acquire semaphore

		if ctx.Err() != nil {
			<-sem
			break
		}
		req, ok := c.frontier.next()
		if !ok {
			<-sem
			break
		}

		wg.Add(1)
		go func(r *Request) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore
			defer c.frontier.done()

			c.process(ctx, r)
		}(req)
	}

	wg.Wait()

	stats := c.stats.snapshot()
	stats.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// process runs every attempt of one request
func (c *Crawler) process(ctx context.Context, r *Request) {
	err := retry.WithRetry(ctx, c.retryCfg, func(attempt int) error {
		r.RetryCount = attempt
		if attempt > 0 {
			c.stats.update(func(s *Stats) { s.Retries++ })
		}

		err := c.attempt(ctx, r, attempt)
		if err != nil && ctx.Err() == nil {
			log.Warn().
				Err(err).
				Str("request_id", r.ID).
				Str("url", r.URL).
				Int("attempt", attempt+1).
				Int("max_attempts", c.retryCfg.MaxAttempts).
				Msg("Request attempt failed")
		}
		return err
	})

	if err == nil {
		c.stats.update(func(s *Stats) { s.Finished++ })
		c.notify(r, nil)
		return
	}

	// Cancelled runs drop the request; it neither succeeded nor failed
	if ctx.Err() != nil {
		return
	}

	c.stats.update(func(s *Stats) { s.Failed++ })
	if c.opts.FailedRequestHandler != nil {
		c.opts.FailedRequestHandler(ctx, r, err)
	}
	c.notify(r, err)
}

// attempt navigates and handles one request once. Staged links are committed only on success.
func (c *Crawler) attempt(ctx context.Context, r *Request, attempt int) error {
	actx := reqctx.WithRequestContext(ctx, r.ID, r.URL, attempt)
	if c.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(actx, c.opts.RequestTimeout)
		defer cancel()
	}

	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(actx, r.URL); err != nil {
			return reqctx.NewRequestError(actx, err)
		}
	}

	page, err := c.opts.Navigator.Navigate(actx, r.URL)
	if err != nil {
		return reqctx.NewRequestError(actx, err)
	}

	logger := log.With().
		Str("request_id", r.ID).
		Str("url", r.URL).
		Int("attempt", attempt+1).
		Logger()
	cc := NewContext(r, page, logger)

	if err := c.opts.RequestHandler(actx, cc); err != nil {
		return reqctx.NewRequestError(actx, fmt.Errorf("request handler: %w", err))
	}

	c.commit(r, cc.Enqueued())
	return nil
}

// commit moves the links staged by a successful handler into the frontier
func (c *Crawler) commit(parent *Request, links []string) {
	if len(links) == 0 {
		return
	}
	reqs := make([]*Request, 0, len(links))
	for _, l := range links {
		child, err := NewRequest(l)
		if err != nil {
			continue
		}
		child.Referrer = parent.URL
		child.Depth = parent.Depth + 1
		reqs = append(reqs, child)
	}

	added := c.frontier.add(reqs...)
	c.stats.update(func(s *Stats) { s.Enqueued += added })

	log.Debug().
		Str("url", parent.URL).
		Int("links", len(links)).
		Int("new", added).
		Msg("Enqueued links")
}

func (c *Crawler) notify(r *Request, err error) {
	if c.opts.OnRequestDone != nil {
		c.opts.OnRequestDone(r, err)
	}
}

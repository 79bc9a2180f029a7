package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/law-makers/shopcrawl/internal/crawler"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/ratelimit"
	"github.com/law-makers/shopcrawl/internal/storage"
	"github.com/rs/zerolog/log"
)

// RunOptions wires a crawl together
type RunOptions struct {
	Navigator engine.Navigator
	Sink      storage.Sink
	Limiter   ratelimit.RateLimiter
	Selectors Selectors
	Strategy  crawler.Strategy

	MaxConcurrency      int
	MaxRequestRetries   int
	RetryBackoff        time.Duration
	RequestTimeout      time.Duration
	MaxRequestsPerCrawl int

	// OnRequestDone is forwarded to the crawler, e.g. for progress output
	OnRequestDone func(req *crawler.Request, err error)
}

// Run crawls from seedURLs until the frontier is exhausted.
// Per-page failures are logged by the failure hook and do not fail the run;
// an invalid seed or a crawler setup error does. A cancelled ctx ends the run
// early without an error.
func Run(ctx context.Context, opts RunOptions, seedURLs []string) (crawler.Stats, error) {
	if len(seedURLs) == 0 {
		return crawler.Stats{}, errors.New("no seed URLs")
	}
	if opts.Sink == nil {
		return crawler.Stats{}, errors.New("no storage sink")
	}

	handler := NewHandler(opts.Sink, opts.Selectors, opts.Strategy)

	c, err := crawler.New(crawler.Options{
		RequestHandler:       handler.HandleRequest,
		FailedRequestHandler: handler.HandleFailed,
		Navigator:            opts.Navigator,
		Limiter:              opts.Limiter,
		MaxConcurrency:       opts.MaxConcurrency,
		MaxRequestRetries:    opts.MaxRequestRetries,
		RetryBackoff:         opts.RetryBackoff,
		RequestTimeout:       opts.RequestTimeout,
		MaxRequestsPerCrawl:  opts.MaxRequestsPerCrawl,
		OnRequestDone:        opts.OnRequestDone,
	})
	if err != nil {
		return crawler.Stats{}, fmt.Errorf("failed to create crawler: %w", err)
	}

	if _, err := c.AddRequests(seedURLs...); err != nil {
		return crawler.Stats{}, fmt.Errorf("invalid seed: %w", err)
	}

	stats, err := c.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Object("stats", stats).Msg("Crawler was aborted.")
			return stats, nil
		}
		return stats, fmt.Errorf("crawl failed: %w", err)
	}

	log.Info().Object("stats", stats).Msg("Crawler has finished.")
	return stats, nil
}

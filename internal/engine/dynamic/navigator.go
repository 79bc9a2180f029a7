// internal/engine/dynamic/navigator.go
package dynamic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/shopcrawl/internal/dom"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/retry"
	"github.com/rs/zerolog/log"
)

// Navigator renders pages in headless Chrome so JavaScript-built listings
// (React/Vue/Angular storefronts) are visible to the extractor.
type Navigator struct {
	pool           *BrowserPool
	acquireTimeout time.Duration
	settle         time.Duration
	retryableCodes []int
}

// New creates a dynamic Navigator on top of pool.
// settle is how long to let scripts run after the body is ready.
func New(pool *BrowserPool, acquireTimeout, settle time.Duration) *Navigator {
	return &Navigator{
		pool:           pool,
		acquireTimeout: acquireTimeout,
		settle:         settle,
		retryableCodes: retry.DefaultRetryableStatusCodes(),
	}
}

// Name returns the name of this navigator
func (n *Navigator) Name() string {
	return "DynamicNavigator"
}

// Navigate loads url in a pooled browser context and snapshots the rendered DOM
func (n *Navigator) Navigate(ctx context.Context, url string) (*engine.Page, error) {
	start := time.Now()

	log.Debug().
		Str("url", url).
		Str("navigator", n.Name()).
		Msg("Starting navigation")

	bCtx, err := n.pool.Acquire(ctx, n.acquireTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser from pool: %w", err)
	}
	log.Debug().Int("pool_available", n.pool.Available()).Msg("Acquired browser context")
	defer n.pool.Release(bCtx)

	// Bind the pooled context to the caller's lifetime without closing the tab
	runCtx, cancel := context.WithCancel(bCtx.Ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	statuses := newStatusRecorder()
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Type == network.ResourceTypeDocument {
			statuses.record(ev.Response.URL, int(ev.Response.Status))
		}
	})

	var (
		html      string
		loadedURL string
	)

	tasks := chromedp.Tasks{
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if n.settle > 0 {
		tasks = append(tasks, chromedp.Sleep(n.settle))
	}
	tasks = append(tasks,
		chromedp.Location(&loadedURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, tasks); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	statusCode := statuses.lookup(loadedURL, url)
	if retry.IsRetryableStatus(statusCode, n.retryableCodes) {
		return nil, retry.NewHTTPError(statusCode, url)
	}

	doc, err := dom.FromHTML(html)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeParseError, "failed to parse rendered DOM", err).WithRetry()
	}

	log.Debug().
		Str("url", url).
		Str("loaded_url", loadedURL).
		Int("status", statusCode).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Navigation completed")

	return &engine.Page{
		URL:        url,
		LoadedURL:  loadedURL,
		StatusCode: statusCode,
		Document:   doc,
	}, nil
}

// statusRecorder collects document response codes from the CDP event goroutine
type statusRecorder struct {
	mu    sync.Mutex
	codes map[string]int
}

func newStatusRecorder() *statusRecorder {
	return &statusRecorder{codes: make(map[string]int)}
}

func (s *statusRecorder) record(url string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[url] = code
}

// lookup returns the status of the first URL that produced a document response
func (s *statusRecorder) lookup(urls ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range urls {
		if code, ok := s.codes[u]; ok {
			return code
		}
	}
	return 0
}

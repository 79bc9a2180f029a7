// internal/engine/dynamic/browser_pool.go
package dynamic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/law-makers/shopcrawl/internal/config"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/rs/zerolog/log"
)

// BrowserPool manages a pool of reusable Chrome browser contexts.
// Every context is created from the same allocator and flags.
type BrowserPool struct {
	size        int
	contexts    chan *BrowserContext
	allocCtx    context.Context
	allocCancel context.CancelFunc
	mu          sync.Mutex
	closed      bool
}

// BrowserContext wraps a chromedp context with its cancel function
type BrowserContext struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

// BrowserPoolOptions configures the browser pool
type BrowserPoolOptions struct {
	Size      int
	Headless  bool
	UserAgent string
	Proxy     string
	ExecPath  string
	ExtraArgs []chromedp.ExecAllocatorOption
}

// NewBrowserPool launches Chrome and pre-creates Size browser contexts.
// Failing to start the browser is returned as an error.
func NewBrowserPool(opts BrowserPoolOptions) (*BrowserPool, error) {
	if opts.Size <= 0 {
		opts.Size = config.DefaultBrowserPoolSize
	}
	if opts.Size > config.DefaultMaxBrowserPoolSize {
		opts.Size = config.DefaultMaxBrowserPoolSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}

	log.Debug().Int("size", opts.Size).Msg("Creating browser pool")

	allocOpts := allocatorOptions(opts)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	pool := &BrowserPool{
		size:        opts.Size,
		contexts:    make(chan *BrowserContext, opts.Size),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}

	for i := 0; i < opts.Size; i++ {
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)

		// The first Run starts the browser; warm every context up front so
		// launch failures surface here instead of on the first page.
		if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
			browserCancel()
			pool.Close()
			if opts.ExecPath == "" && FindChrome() == "" {
				err = fmt.Errorf("%w: %v", engine.ErrBrowserNotFound, err)
			}
			return nil, engine.NewEngineError(engine.ErrCodeBrowserCrash,
				fmt.Sprintf("failed to warm up browser context %d", i), err)
		}

		pool.contexts <- &BrowserContext{
			Ctx:    browserCtx,
			Cancel: browserCancel,
		}

		log.Debug().Int("context_id", i).Msg("Browser context initialized")
	}

	log.Info().Int("pool_size", opts.Size).Msg("Browser pool ready")

	return pool, nil
}

func allocatorOptions(opts BrowserPoolOptions) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(opts.UserAgent),
	}

	chromePath := opts.ExecPath
	if chromePath == "" {
		chromePath = FindChrome()
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}

	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	return append(allocOpts, opts.ExtraArgs...)
}

// Acquire takes a context from the pool, waiting at most timeout (0 waits until ctx is done)
func (bp *BrowserPool) Acquire(ctx context.Context, timeout time.Duration) (*BrowserContext, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case bCtx, ok := <-bp.contexts:
		if !ok {
			return nil, engine.ErrPoolClosed
		}
		bp.mu.Lock()
		defer bp.mu.Unlock()
		if bp.closed {
			bCtx.Cancel()
			return nil, engine.ErrPoolClosed
		}
		log.Debug().Msg("Browser context acquired from pool")
		return bCtx, nil
	case <-expired:
		return nil, engine.NewEngineError(engine.ErrCodeTimeout, "timeout waiting for available browser context", engine.ErrTimeout).WithRetry()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a context to the pool after resetting it to a blank page
func (bp *BrowserPool) Release(bCtx *BrowserContext) {
	if bCtx == nil {
		return
	}

	// Best effort cleanup so the next page starts from an empty document
	_ = chromedp.Run(bCtx.Ctx, chromedp.Navigate("about:blank"))

	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		bCtx.Cancel()
		return
	}

	select {
	case bp.contexts <- bCtx:
		log.Debug().Msg("Browser context released to pool")
	default:
		bCtx.Cancel()
		log.Warn().Msg("Browser pool full, discarding context")
	}
}

// Close shuts down all browser contexts and the allocator
func (bp *BrowserPool) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true

	log.Debug().Msg("Closing browser pool")

	close(bp.contexts)
	for bCtx := range bp.contexts {
		bCtx.Cancel()
	}

	bp.allocCancel()

	log.Debug().Msg("Browser pool closed")

	return nil
}

// Size returns the pool size
func (bp *BrowserPool) Size() int {
	return bp.size
}

// Available returns the number of idle contexts in the pool
func (bp *BrowserPool) Available() int {
	return len(bp.contexts)
}

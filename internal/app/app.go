// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/law-makers/shopcrawl/internal/catalog"
	"github.com/law-makers/shopcrawl/internal/config"
	"github.com/law-makers/shopcrawl/internal/crawler"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/engine/dynamic"
	"github.com/law-makers/shopcrawl/internal/engine/hybrid"
	"github.com/law-makers/shopcrawl/internal/engine/static"
	"github.com/law-makers/shopcrawl/internal/ratelimit"
	"github.com/law-makers/shopcrawl/internal/storage"
	"github.com/law-makers/shopcrawl/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command run. Use Close() to release the browser
// pool, the output sink, and idle HTTP connections.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	BrowserPool *dynamic.BrowserPool
	poolMu      sync.Mutex
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client
	Navigator   engine.Navigator
	Sink        storage.Sink
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger from the config
//   - Creates the per-host rate limiter
//   - Initializes the HTTP client with proper timeouts and proxy
//   - Builds the navigator for the configured mode (the browser pool is
//     started here for spa mode and on first use for auto mode)
//   - Opens the output sink
//
// If any step fails, an error is returned and acquired resources are released.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg, os.Stderr)

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: transport,
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		HTTPClient:  httpClient,
		startTime:   time.Now(),
	}

	mode, _ := models.ParseMode(cfg.Mode)
	staticNav := static.New(httpClient, cfg.UserAgent)
	switch mode {
	case models.ModeStatic:
		a.Navigator = staticNav
	case models.ModeAuto:
		a.Navigator = hybrid.New(staticNav, &lazyNavigator{app: a}, cfg.ItemSelector)
	default:
		// Launch failures in spa mode end the run before any page is tried
		if err := a.EnsureBrowserPool(ctx); err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		a.Navigator = dynamic.New(a.BrowserPool, config.DefaultPoolAcquireTTL, cfg.JSWaitTime)
	}
	logger.Debug().Str("navigator", a.Navigator.Name()).Msg("Navigator initialized")

	sink, err := storage.Open(cfg.Output)
	if err != nil {
		a.closePool()
		return nil, fmt.Errorf("failed to open output %s: %w", cfg.Output, err)
	}
	a.Sink = sink

	logger.Debug().Str("output", cfg.Output).Msg("Application initialized successfully")
	return a, nil
}

// SetupLogging configures the global zerolog logger from cfg and returns it.
func SetupLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logWriter io.Writer
	if cfg.JSONLog {
		// JSON logs
		logWriter = w
	} else {
		// Human-friendly console output otherwise
		logWriter = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	return log.Logger
}

// RunOptions maps the configuration onto a catalog crawl
func (a *Application) RunOptions() (catalog.RunOptions, error) {
	strategy, err := crawler.ParseStrategy(a.Config.EnqueueStrategy)
	if err != nil {
		return catalog.RunOptions{}, err
	}

	return catalog.RunOptions{
		Navigator: a.Navigator,
		Sink:      a.Sink,
		Limiter:   a.RateLimiter,
		Selectors: catalog.Selectors{
			Item:        a.Config.ItemSelector,
			Name:        a.Config.NameSelector,
			Price:       a.Config.PriceSelector,
			Description: a.Config.DescriptionSelector,
			Link:        a.Config.LinkSelector,
		},
		Strategy:            strategy,
		MaxConcurrency:      a.Config.MaxConcurrency,
		MaxRequestRetries:   a.Config.MaxRequestRetries,
		RetryBackoff:        a.Config.RetryBackoff,
		RequestTimeout:      a.Config.RequestTimeout,
		MaxRequestsPerCrawl: a.Config.MaxRequestsPerCrawl,
	}, nil
}

// EnsureBrowserPool lazily creates the browser pool if it has not already been
// initialized.
func (a *Application) EnsureBrowserPool(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	a.poolMu.Lock()
	defer a.poolMu.Unlock()

	if a.BrowserPool != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := a.Logger
	logger.Debug().Msg("Initializing browser pool on demand")
	pool, err := dynamic.NewBrowserPool(dynamic.BrowserPoolOptions{
		Size:      a.Config.BrowserPoolSize,
		Headless:  a.Config.BrowserHeadless,
		UserAgent: a.Config.UserAgent,
		Proxy:     a.Config.Proxy,
		ExecPath:  a.Config.ChromePath,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create browser pool")
		return err
	}

	a.BrowserPool = pool
	logger.Debug().Int("pool_size", pool.Size()).Msg("Browser pool initialized")
	return nil
}

func (a *Application) closePool() {
	a.poolMu.Lock()
	defer a.poolMu.Unlock()
	if a.BrowserPool != nil {
		if err := a.BrowserPool.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser pool")
		}
		a.BrowserPool = nil
	}
}

// Close gracefully shuts down the application and all its resources.
//
// It closes the output sink first so buffered results reach disk, then the
// browser pool and idle HTTP connections. Errors are logged and the first
// sink error is returned.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	var sinkErr error
	if a.Sink != nil {
		if sinkErr = a.Sink.Close(); sinkErr != nil {
			a.Logger.Error().Err(sinkErr).Msg("Error closing output")
		}
	}

	a.closePool()

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return sinkErr
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

// lazyNavigator starts the browser pool on the first page that needs it
type lazyNavigator struct {
	app  *Application
	once sync.Once
	nav  engine.Navigator
	err  error
}

func (l *lazyNavigator) Name() string {
	return "DynamicNavigator"
}

func (l *lazyNavigator) Navigate(ctx context.Context, url string) (*engine.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.once.Do(func() {
		if err := l.app.EnsureBrowserPool(ctx); err != nil {
			// A browser that failed to launch stays failed for the whole run
			l.err = engine.NewEngineError(engine.ErrCodeBrowserCrash, "failed to start browser", err)
			return
		}
		l.nav = dynamic.New(l.app.BrowserPool, config.DefaultPoolAcquireTTL, l.app.Config.JSWaitTime)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.nav.Navigate(ctx, url)
}

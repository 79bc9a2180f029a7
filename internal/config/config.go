package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	Progress bool

	// HTTP/Navigation
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration
	UserAgent      string
	Proxy          string
	Mode           string

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Browser Pool
	BrowserPoolSize int
	BrowserHeadless bool
	ChromePath      string
	JSWaitTime      time.Duration

	// Crawl
	SeedURLs            []string
	MaxConcurrency      int
	MaxRequestRetries   int
	RetryBackoff        time.Duration
	MaxRequestsPerCrawl int
	EnqueueStrategy     string
	Output              string

	// Selectors
	ItemSelector        string
	NameSelector        string
	PriceSelector       string
	DescriptionSelector string
	LinkSelector        string
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		LogLevel:            DefaultLogLevel,
		JSONLog:             DefaultJSONLog,
		HTTPTimeout:         DefaultHTTPTimeout,
		RequestTimeout:      DefaultRequestTimeout,
		UserAgent:           DefaultUserAgent,
		Mode:                DefaultMode,
		RateLimitRPS:        DefaultRateLimitRPS,
		RateLimitBurst:      DefaultRateLimitBurst,
		BrowserPoolSize:     DefaultBrowserPoolSize,
		BrowserHeadless:     DefaultBrowserHeadless,
		JSWaitTime:          DefaultJSWaitTime,
		SeedURLs:            []string{DefaultSeedURL},
		MaxConcurrency:      DefaultMaxConcurrency,
		MaxRequestRetries:   DefaultMaxRequestRetries,
		RetryBackoff:        DefaultRetryBackoff,
		MaxRequestsPerCrawl: DefaultMaxRequestsPerCrawl,
		EnqueueStrategy:     DefaultEnqueueStrategy,
		Output:              DefaultOutput,
		ItemSelector:        DefaultItemSelector,
		NameSelector:        DefaultNameSelector,
		PriceSelector:       DefaultPriceSelector,
		DescriptionSelector: DefaultDescriptionSelector,
		LinkSelector:        DefaultLinkSelector,
	}
}

// Load builds a Config by combining defaults, a .env file, environment variables, and CLI flags.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(cmd); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cmd != nil {
		if err := applyFlags(cfg, cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads --env-file, or ./.env when present. Real environment variables win.
func loadDotEnv(cmd *cobra.Command) error {
	path := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("env-file"); f != nil {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("CRAWL_LOG_LEVEL", &cfg.LogLevel)
	boolean("CRAWL_JSON_LOG", &cfg.JSONLog)
	str("CRAWL_USER_AGENT", &cfg.UserAgent)
	str("CRAWL_PROXY", &cfg.Proxy)
	str("CRAWL_CHROME_PATH", &cfg.ChromePath)
	str("CRAWL_MODE", &cfg.Mode)
	duration("CRAWL_HTTP_TIMEOUT", &cfg.HTTPTimeout)
	duration("CRAWL_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	float("CRAWL_RATE_LIMIT_RPS", &cfg.RateLimitRPS)
	integer("CRAWL_RATE_LIMIT_BURST", &cfg.RateLimitBurst)
	integer("CRAWL_BROWSER_POOL_SIZE", &cfg.BrowserPoolSize)
	boolean("CRAWL_HEADLESS", &cfg.BrowserHeadless)
	duration("CRAWL_JS_WAIT", &cfg.JSWaitTime)
	integer("CRAWL_MAX_CONCURRENCY", &cfg.MaxConcurrency)
	integer("CRAWL_MAX_REQUEST_RETRIES", &cfg.MaxRequestRetries)
	duration("CRAWL_RETRY_BACKOFF", &cfg.RetryBackoff)
	integer("CRAWL_MAX_REQUESTS_PER_CRAWL", &cfg.MaxRequestsPerCrawl)
	str("CRAWL_ENQUEUE_STRATEGY", &cfg.EnqueueStrategy)
	str("CRAWL_OUTPUT", &cfg.Output)
	str("CRAWL_ITEM_SELECTOR", &cfg.ItemSelector)
	str("CRAWL_NAME_SELECTOR", &cfg.NameSelector)
	str("CRAWL_PRICE_SELECTOR", &cfg.PriceSelector)
	str("CRAWL_DESCRIPTION_SELECTOR", &cfg.DescriptionSelector)
	str("CRAWL_LINK_SELECTOR", &cfg.LinkSelector)

	if v := os.Getenv("CRAWL_SEED_URLS"); v != "" {
		cfg.SeedURLs = splitList(v)
	}

	return errors.Join(errs...)
}

func applyFlags(cfg *Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if changed("proxy") {
		cfg.Proxy, _ = flags.GetString("proxy")
	}
	if changed("timeout") {
		s, _ := flags.GetString("timeout")
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if changed("request-timeout") {
		s, _ := flags.GetString("request-timeout")
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("--request-timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if changed("json") {
		cfg.JSONLog, _ = flags.GetBool("json")
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	if p, _ := flags.GetBool("progress"); p {
		cfg.Progress = true
		if cfg.LogLevel == "info" {
			cfg.LogLevel = "warn"
		}
	}
	if q, _ := flags.GetBool("quiet"); q {
		cfg.LogLevel = "error"
	}

	if changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if changed("seed") {
		cfg.SeedURLs, _ = flags.GetStringSlice("seed")
	}
	if changed("concurrency") {
		cfg.MaxConcurrency, _ = flags.GetInt("concurrency")
	}
	if changed("max-retries") {
		cfg.MaxRequestRetries, _ = flags.GetInt("max-retries")
	}
	if changed("max-requests") {
		cfg.MaxRequestsPerCrawl, _ = flags.GetInt("max-requests")
	}
	if changed("rps") {
		cfg.RateLimitRPS, _ = flags.GetFloat64("rps")
	}
	if changed("strategy") {
		cfg.EnqueueStrategy, _ = flags.GetString("strategy")
	}
	if h, _ := flags.GetBool("headful"); h {
		cfg.BrowserHeadless = false
	}

	selectors := map[string]*string{
		"item-selector":        &cfg.ItemSelector,
		"name-selector":        &cfg.NameSelector,
		"price-selector":       &cfg.PriceSelector,
		"description-selector": &cfg.DescriptionSelector,
		"link-selector":        &cfg.LinkSelector,
	}
	for name, dst := range selectors {
		if changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

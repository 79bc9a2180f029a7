package config

import (
	"fmt"

	urlutil "github.com/law-makers/shopcrawl/internal/utils/url"
	"github.com/law-makers/shopcrawl/pkg/models"
)

var enqueueStrategies = map[string]bool{
	"all":           true,
	"same-domain":   true,
	"same-hostname": true,
	"same-origin":   true,
}

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	if _, ok := models.ParseMode(c.Mode); !ok {
		return fmt.Errorf("invalid mode %q (must be auto, static, or spa)", c.Mode)
	}
	if c.BrowserPoolSize <= 0 || c.BrowserPoolSize > DefaultMaxBrowserPoolSize {
		return fmt.Errorf("browser pool size must be between 1 and %d", DefaultMaxBrowserPoolSize)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be > 0")
	}
	if c.MaxRequestRetries < 0 {
		return fmt.Errorf("max request retries must be >= 0")
	}
	if c.MaxRequestsPerCrawl < 0 {
		return fmt.Errorf("max requests per crawl must be >= 0")
	}
	if c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	if !enqueueStrategies[c.EnqueueStrategy] {
		return fmt.Errorf("invalid enqueue strategy %q", c.EnqueueStrategy)
	}
	if c.ItemSelector == "" || c.NameSelector == "" {
		return fmt.Errorf("item and name selectors are required")
	}
	for _, seed := range c.SeedURLs {
		if err := urlutil.ValidateURL(seed); err != nil {
			return fmt.Errorf("seed %q: %w", seed, err)
		}
	}
	return nil
}

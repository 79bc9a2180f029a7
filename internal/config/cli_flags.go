package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "", "Navigation timeout per page (e.g., 30s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("env-file", "", "Path to a .env file (default: ./.env if present)")
}

// RegisterCrawlFlags registers the flags of the crawl command
func RegisterCrawlFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	f := cmd.Flags()
	f.StringP("mode", "m", DefaultMode, "Engine mode: spa, static, or auto")
	f.StringP("output", "o", DefaultOutput, "Dataset directory or file (.jsonl, .csv, .db)")
	f.StringSlice("seed", nil, "Seed URL (repeatable; positional arguments take precedence)")
	f.Int("concurrency", DefaultMaxConcurrency, "Maximum pages processed in parallel")
	f.Int("max-retries", DefaultMaxRequestRetries, "Retries per page after the first attempt")
	f.Int("max-requests", DefaultMaxRequestsPerCrawl, "Stop after this many pages (0 = unlimited)")
	f.Float64("rps", DefaultRateLimitRPS, "Requests per second per host (0 = unlimited)")
	f.String("request-timeout", DefaultRequestTimeout.String(), "Time budget for one page attempt including extraction")
	f.String("strategy", DefaultEnqueueStrategy, "Which discovered links to follow: same-hostname, same-domain, same-origin, all")
	f.Bool("headful", false, "Show the browser window")
	f.Bool("progress", false, "Show a progress spinner instead of per-page logs")
	f.String("item-selector", DefaultItemSelector, "CSS selector of a product container")
	f.String("name-selector", DefaultNameSelector, "CSS selector of the product name inside a container")
	f.String("price-selector", DefaultPriceSelector, "CSS selector of the product price inside a container")
	f.String("description-selector", DefaultDescriptionSelector, "CSS selector of the product description inside a container")
	f.String("link-selector", DefaultLinkSelector, "CSS selector of links to follow")
}

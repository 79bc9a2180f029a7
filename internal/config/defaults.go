package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel            = "info"
	DefaultJSONLog             = false
	DefaultUserAgent           = "ShopCrawl/1.0 (https://github.com/law-makers/shopcrawl)"
	DefaultMode                = "spa"
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultRequestTimeout      = 60 * time.Second
	DefaultRateLimitRPS        = 3.0
	DefaultRateLimitBurst      = 5
	DefaultBrowserPoolSize     = 3
	DefaultMaxBrowserPoolSize  = 10
	DefaultBrowserHeadless     = true
	DefaultJSWaitTime          = 500 * time.Millisecond
	DefaultPoolAcquireTTL      = 10 * time.Second
	DefaultMaxConcurrency      = 3
	DefaultMaxRequestRetries   = 3
	DefaultRetryBackoff        = 1 * time.Second
	DefaultMaxRequestsPerCrawl = 0
	DefaultOutput              = "storage/datasets/default"
	DefaultEnqueueStrategy     = "same-hostname"
	DefaultSeedURL             = "https://www.razer.com/store"

	DefaultItemSelector        = ".product-item"
	DefaultNameSelector        = ".product-name"
	DefaultPriceSelector       = ".product-price"
	DefaultDescriptionSelector = ".product-description"
	DefaultLinkSelector        = "a.product-name"
)

package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	urlutil "github.com/law-makers/shopcrawl/internal/utils/url"
	"golang.org/x/net/publicsuffix"
)

// Strategy decides which discovered links stay in the crawl
type Strategy string

const (
	// StrategySameHostname keeps links whose hostname equals the page's
	StrategySameHostname Strategy = "same-hostname"
	// StrategySameDomain keeps links under the same registrable domain (www.shop.com and eu.shop.com)
	StrategySameDomain Strategy = "same-domain"
	// StrategySameOrigin keeps links with the same scheme, host and port
	StrategySameOrigin Strategy = "same-origin"
	// StrategyAll keeps every http(s) link
	StrategyAll Strategy = "all"
)

// ParseStrategy converts a config value to a Strategy. Empty selects same-hostname.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategySameHostname:
		return StrategySameHostname, nil
	case StrategySameDomain:
		return StrategySameDomain, nil
	case StrategySameOrigin:
		return StrategySameOrigin, nil
	case StrategyAll:
		return StrategyAll, nil
	}
	return "", fmt.Errorf("unknown enqueue strategy %q", s)
}

// EnqueueOptions selects the links EnqueueLinks follows
type EnqueueOptions struct {
	// Selector matches the anchors to follow. Empty means every "a".
	Selector string
	// Strategy filters the resolved links. Empty means same-hostname.
	Strategy Strategy
}

func (s Strategy) allows(base, target *url.URL) bool {
	switch s {
	case StrategyAll:
		return true
	case StrategySameOrigin:
		return strings.EqualFold(base.Scheme, target.Scheme) && strings.EqualFold(base.Host, target.Host)
	case StrategySameDomain:
		return strings.EqualFold(registrableDomain(base.Hostname()), registrableDomain(target.Hostname()))
	default:
		return strings.EqualFold(base.Hostname(), target.Hostname())
	}
}

// registrableDomain returns eTLD+1 for host, or host itself (IPs, localhost)
func registrableDomain(host string) string {
	d, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(host))
	if err != nil {
		return strings.ToLower(host)
	}
	return d
}

// EnqueueLinks collects the links matched by opts on the current page.
// Links are staged on the Context and reach the frontier only if the
// request handler returns nil. It returns the number of links staged.
func (c *Context) EnqueueLinks(ctx context.Context, opts EnqueueOptions) (int, error) {
	if c.Page == nil || c.Page.Document == nil {
		return 0, nil
	}
	if opts.Selector == "" {
		opts.Selector = "a"
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategySameHostname
	}

	baseURL := c.Page.LoadedURL
	if baseURL == "" {
		baseURL = c.Request.URL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return 0, fmt.Errorf("invalid page URL %q: %w", baseURL, err)
	}

	anchors, err := c.Page.Document.QueryAll(ctx, opts.Selector)
	if err != nil {
		return 0, fmt.Errorf("failed to query links: %w", err)
	}

	staged := 0
	for _, a := range anchors {
		href, ok, err := a.Attr(ctx, "href")
		if err != nil {
			return staged, err
		}
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}

		abs, err := urlutil.ResolveURL(base.String(), href)
		if err != nil || urlutil.ValidateURL(abs) != nil {
			continue
		}
		target, err := url.Parse(abs)
		if err != nil || !opts.Strategy.allows(base, target) {
			continue
		}

		c.stage(abs)
		staged++
	}

	return staged, nil
}

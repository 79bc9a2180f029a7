// internal/engine/static/navigator.go
package static

import (
	"context"
	"net/http"
	"time"

	"github.com/law-makers/shopcrawl/internal/dom"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/retry"
	"github.com/rs/zerolog/log"
)

// Navigator loads pages with plain HTTP requests and parses them with goquery.
// It is much faster than Chrome but sees only server-rendered markup.
type Navigator struct {
	client         *http.Client
	userAgent      string
	retryableCodes []int
}

// New creates a static Navigator
func New(client *http.Client, ua string) *Navigator {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Navigator{
		client:         client,
		userAgent:      ua,
		retryableCodes: retry.DefaultRetryableStatusCodes(),
	}
}

// Name returns the name of this navigator
func (n *Navigator) Name() string {
	return "StaticNavigator"
}

// Navigate fetches url and parses the response body
func (n *Navigator) Navigate(ctx context.Context, url string) (*engine.Page, error) {
	page, _, err := n.NavigateHTML(ctx, url)
	return page, err
}

// NavigateHTML is Navigate that also returns the parsed document, which the
// hybrid navigator inspects before deciding to re-render
func (n *Navigator) NavigateHTML(ctx context.Context, url string) (*engine.Page, *dom.HTMLDocument, error) {
	start := time.Now()

	log.Debug().
		Str("url", url).
		Str("navigator", n.Name()).
		Msg("Starting navigation")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, engine.NewEngineError(engine.ErrCodeValidation, "failed to create request", err)
	}

	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, engine.NewEngineError(engine.ErrCodeNetworkError, "failed to fetch URL", err).
			WithRetry().
			WithDetail("url", url)
	}
	defer resp.Body.Close()

	if retry.IsRetryableStatus(resp.StatusCode, n.retryableCodes) {
		return nil, nil, retry.NewHTTPError(resp.StatusCode, url)
	}

	doc, err := dom.Parse(resp.Body)
	if err != nil {
		return nil, nil, engine.NewEngineError(engine.ErrCodeParseError, "failed to parse response", err).WithRetry()
	}

	page := &engine.Page{
		URL:        url,
		LoadedURL:  resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Document:   doc,
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Navigation completed")

	return page, doc, nil
}

package catalog

import (
	"context"
	"fmt"

	"github.com/law-makers/shopcrawl/internal/crawler"
	"github.com/law-makers/shopcrawl/internal/storage"
	"github.com/rs/zerolog/log"
)

// Handler holds what the crawl hooks need. It keeps no per-page state,
// so HandleRequest may run concurrently for different pages.
type Handler struct {
	sink      storage.Sink
	selectors Selectors
	strategy  crawler.Strategy
}

// NewHandler creates a Handler writing to sink
func NewHandler(sink storage.Sink, selectors Selectors, strategy crawler.Strategy) *Handler {
	return &Handler{
		sink:      sink,
		selectors: selectors,
		strategy:  strategy,
	}
}

// HandleRequest extracts the products of one navigated page, stages its
// product links and stores the PageResult. Any error fails the attempt.
func (h *Handler) HandleRequest(ctx context.Context, cc *crawler.Context) error {
	cc.Log.Info().Msgf("Processing %s", cc.Request.URL)

	result, err := Extract(ctx, cc.Page.Document, cc.Request.URL, h.selectors)
	if err != nil {
		return fmt.Errorf("extract products: %w", err)
	}

	cc.Log.Debug().
		Int("products", len(result.Products)).
		Interface("items", result.Products).
		Msg("Extracted products")

	if h.selectors.Link != "" {
		n, err := cc.EnqueueLinks(ctx, crawler.EnqueueOptions{
			Selector: h.selectors.Link,
			Strategy: h.strategy,
		})
		if err != nil {
			return fmt.Errorf("enqueue links: %w", err)
		}
		cc.Log.Debug().Int("links", n).Msg("Found product links")
	}

	if err := h.sink.Append(ctx, result); err != nil {
		return fmt.Errorf("store page result: %w", err)
	}
	return nil
}

// HandleFailed records a request that used up its retries. It never stops the run.
func (h *Handler) HandleFailed(ctx context.Context, req *crawler.Request, err error) {
	log.Error().
		Err(err).
		Str("request_id", req.ID).
		Int("attempts", req.RetryCount+1).
		Msgf("Request %s failed too many times.", req.URL)
}

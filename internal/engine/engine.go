package engine

import (
	"context"

	"github.com/law-makers/shopcrawl/internal/dom"
)

// Page is a navigated, fully rendered page
type Page struct {
	// URL is the URL that was requested
	URL string
	// LoadedURL is the URL after redirects, used to resolve relative links
	LoadedURL string
	// StatusCode of the main document response (0 if unknown)
	StatusCode int
	// Document gives read-only access to the rendered DOM
	Document dom.Document
}

// Navigator is the interface that all page loading engines must implement
type Navigator interface {
	// Navigate loads url and returns its rendered DOM
	Navigate(ctx context.Context, url string) (*Page, error)

	// Name returns the name of the navigator implementation
	Name() string
}

package crawler

import (
	"context"
	"net/url"
	"testing"

	"github.com/law-makers/shopcrawl/internal/dom"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyAllows(t *testing.T) {
	tests := []struct {
		strategy Strategy
		base     string
		target   string
		want     bool
	}{
		{StrategySameHostname, "https://shop.test/store", "https://shop.test/p/1", true},
		{StrategySameHostname, "https://shop.test/store", "https://www.shop.test/p/1", false},
		{StrategySameDomain, "https://www.example.co.uk/", "https://eu.example.co.uk/p", true},
		{StrategySameDomain, "https://www.example.co.uk/", "https://other.co.uk/p", false},
		{StrategySameOrigin, "https://shop.test/", "http://shop.test/p", false},
		{StrategySameOrigin, "https://shop.test:8443/", "https://shop.test:8443/p", true},
		{StrategyAll, "https://shop.test/", "https://elsewhere.test/", true},
	}

	for _, tt := range tests {
		base, _ := url.Parse(tt.base)
		target, _ := url.Parse(tt.target)
		assert.Equal(t, tt.want, tt.strategy.allows(base, target), "%s %s -> %s", tt.strategy, tt.base, tt.target)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategySameHostname, s)

	s, err = ParseStrategy("Same-Domain")
	require.NoError(t, err)
	assert.Equal(t, StrategySameDomain, s)

	_, err = ParseStrategy("everything")
	assert.Error(t, err)
}

func TestEnqueueLinks_ResolvesAgainstLoadedURL(t *testing.T) {
	doc, err := dom.FromHTML(`<html><body>
		<a class="product-name" href="mouse">Mouse</a>
		<a class="product-name">No href</a>
		<a class="product-name" href="javascript:void(0)">JS</a>
		<span class="product-name">Not a link</span>
	</body></html>`)
	require.NoError(t, err)

	req, err := NewRequest("https://shop.test/store")
	require.NoError(t, err)
	page := &engine.Page{URL: req.URL, LoadedURL: "https://shop.test/en-us/store/", Document: doc}
	cc := NewContext(req, page, zerolog.Nop())

	n, err := cc.EnqueueLinks(context.Background(), EnqueueOptions{Selector: ".product-name"})
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"https://shop.test/en-us/store/mouse"}, cc.Enqueued())
}

func TestEnqueueLinks_InvalidSelector(t *testing.T) {
	doc, err := dom.FromHTML(`<html></html>`)
	require.NoError(t, err)
	req, err := NewRequest("https://shop.test/")
	require.NoError(t, err)

	cc := NewContext(req, &engine.Page{URL: req.URL, Document: doc}, zerolog.Nop())
	_, err = cc.EnqueueLinks(context.Background(), EnqueueOptions{Selector: "a[["})
	assert.Error(t, err)
}

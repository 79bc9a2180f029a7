package hybrid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/shopcrawl/internal/dom"
	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/engine/static"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNavigator struct {
	calls atomic.Int32
}

func (c *countingNavigator) Name() string { return "counting" }

func (c *countingNavigator) Navigate(ctx context.Context, url string) (*engine.Page, error) {
	c.calls.Add(1)
	doc, err := dom.FromHTML(`<div class="product-item"><span class="product-name">Rendered</span></div>`)
	if err != nil {
		return nil, err
	}
	return &engine.Page{URL: url, LoadedURL: url, StatusCode: 200, Document: doc}, nil
}

func serve(t *testing.T, html string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestNavigator_StaticPageStaysStatic(t *testing.T) {
	url := serve(t, `<html><body>
		<div class="product-item"><span class="product-name">Mouse</span></div>
		<script src="/app.js"></script>
	</body></html>`)

	dyn := &countingNavigator{}
	nav := New(static.New(&http.Client{Timeout: 5 * time.Second}, ""), dyn, ".product-item")

	page, err := nav.Navigate(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, url, page.URL)
	assert.Equal(t, int32(0), dyn.calls.Load())
}

func TestNavigator_SPAShellIsRendered(t *testing.T) {
	url := serve(t, `<html><body><div id="root"></div><script src="/bundle.js"></script></body></html>`)

	dyn := &countingNavigator{}
	nav := New(static.New(&http.Client{Timeout: 5 * time.Second}, ""), dyn, ".product-item")

	page, err := nav.Navigate(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, int32(1), dyn.calls.Load())

	items, err := page.Document.QueryAll(context.Background(), ".product-item")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNeedsJavaScript(t *testing.T) {
	assert.False(t, NeedsJavaScript(`<div></div>`, 0))
	assert.True(t, NeedsJavaScript(`<div id="__next"></div>`, 1))
	assert.True(t, NeedsJavaScript(`<div></div><div></div><div></div>`, 6))
	assert.False(t, NeedsJavaScript(`<div></div><div></div><div></div>`, 1))
	assert.Equal(t, "Angular", DetectJavaScriptFramework(`<app-root ng-version="17.0.0">`))
}

package static

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/law-makers/shopcrawl/internal/retry"
)

func newTestNavigator() *Navigator {
	return New(&http.Client{Timeout: 5 * time.Second}, "TestNavigator/1.0")
}

func TestNavigator_Navigate_BasicHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `<!DOCTYPE html>
<html>
<head><title>Store</title></head>
<body>
	<div class="product-item"><span class="product-name">Mouse</span></div>
	<div class="product-item"><span class="product-name">Keyboard</span></div>
</body>
</html>`
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))
	}))
	defer server.Close()

	page, err := newTestNavigator().Navigate(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if page.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", page.StatusCode)
	}

	items, err := page.Document.QueryAll(context.Background(), ".product-item")
	if err != nil {
		t.Fatalf("QueryAll failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(items))
	}
}

func TestNavigator_Navigate_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new/", http.StatusFound)
	})
	mux.HandleFunc("/new/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>moved</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := newTestNavigator().Navigate(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if page.URL != server.URL+"/old" {
		t.Errorf("Expected requested URL to be kept, got %s", page.URL)
	}
	if page.LoadedURL != server.URL+"/new/" {
		t.Errorf("Expected loaded URL %s/new/, got %s", server.URL, page.LoadedURL)
	}
}

func TestNavigator_Navigate_RetryableStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestNavigator().Navigate(context.Background(), server.URL)

	var httpErr retry.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", httpErr.StatusCode)
	}
}

func TestNavigator_Navigate_NotFoundIsHandedOver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html><body>gone</body></html>`))
	}))
	defer server.Close()

	page, err := newTestNavigator().Navigate(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if page.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", page.StatusCode)
	}
}

func TestNavigator_Navigate_SendsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	if _, err := newTestNavigator().Navigate(context.Background(), server.URL); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if got != "TestNavigator/1.0" {
		t.Errorf("Expected user agent TestNavigator/1.0, got %q", got)
	}
}

func TestNavigator_Navigate_InvalidURL(t *testing.T) {
	_, err := New(&http.Client{Timeout: 2 * time.Second}, "").
		Navigate(context.Background(), "http://invalid-url-that-does-not-exist-12345.invalid")

	if err == nil {
		t.Error("Expected error for invalid URL, got nil")
	}
}

func TestNavigator_Name(t *testing.T) {
	if name := newTestNavigator().Name(); name != "StaticNavigator" {
		t.Errorf("Expected name 'StaticNavigator', got '%s'", name)
	}
}

// internal/engine/hybrid/navigator.go
package hybrid

import (
	"context"

	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/engine/static"
	"github.com/rs/zerolog/log"
)

// Navigator tries a plain HTTP fetch first and only pays for Chrome when the
// markup looks like a client-rendered shell.
type Navigator struct {
	static        *static.Navigator
	dynamic       engine.Navigator
	readySelector string
}

// New creates a hybrid Navigator. When readySelector matches the static
// document, the page is used as is regardless of its scripts.
func New(staticNav *static.Navigator, dynamicNav engine.Navigator, readySelector string) *Navigator {
	return &Navigator{
		static:        staticNav,
		dynamic:       dynamicNav,
		readySelector: readySelector,
	}
}

// Name returns the name of this navigator
func (n *Navigator) Name() string {
	return "HybridNavigator"
}

// Navigate fetches url statically and re-renders it in Chrome if needed
func (n *Navigator) Navigate(ctx context.Context, url string) (*engine.Page, error) {
	page, doc, err := n.static.NavigateHTML(ctx, url)
	if err != nil {
		return nil, err
	}

	if n.readySelector != "" {
		if found, err := doc.QueryAll(ctx, n.readySelector); err == nil && len(found) > 0 {
			return page, nil
		}
	}

	html := doc.HTML()
	if !NeedsJavaScript(html, doc.ScriptCount()) {
		return page, nil
	}

	log.Debug().
		Str("url", url).
		Str("title", doc.Title()).
		Str("framework", DetectJavaScriptFramework(html)).
		Msg("Page needs JavaScript, rendering in browser")

	return n.dynamic.Navigate(ctx, url)
}

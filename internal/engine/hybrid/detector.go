// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"
)

// frameworkMarkers maps a lower-cased HTML fragment to the framework it reveals
var frameworkMarkers = []struct {
	marker    string
	framework string
}{
	{"data-reactroot", "React"},
	{"__next_data__", "Next.js"},
	{"id=\"__next\"", "Next.js"},
	{"id=\"root\"", "React"},
	{"data-v-app", "Vue"},
	{"id=\"__nuxt\"", "Nuxt"},
	{"ng-version", "Angular"},
	{"ng-app", "Angular"},
	{"data-server-rendered", "Vue"},
	{"svelte-", "Svelte"},
	{"ember-application", "Ember"},
}

// DetectJavaScriptFramework detects common JS frameworks in HTML
func DetectJavaScriptFramework(html string) string {
	html = strings.ToLower(html)

	for _, m := range frameworkMarkers {
		if strings.Contains(html, m.marker) {
			return m.framework
		}
	}

	return "Unknown"
}

// NeedsJavaScript determines if a page likely needs JS rendering
func NeedsJavaScript(html string, scriptCount int) bool {
	if scriptCount == 0 {
		return false
	}

	// Many scripts usually means client-side rendering
	if scriptCount > 5 {
		return true
	}

	if DetectJavaScriptFramework(html) != "Unknown" {
		return true
	}

	// An almost empty body with scripts is the typical SPA shell
	return strings.Count(strings.ToLower(html), "<div") < 3
}

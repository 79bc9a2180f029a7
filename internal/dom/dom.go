// Package dom provides read-only CSS queries over a rendered page.
//
// Both navigators hand the crawl handler a Document: the static engine parses the
// HTTP response body, the dynamic engine parses the outerHTML Chrome produced after
// JavaScript ran. Queries take a context so a handler can be cancelled mid-page.
package dom

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Document is a queryable, already rendered page
type Document interface {
	// QueryAll returns every element matching selector, in document order
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Element is a single node of a Document
type Element interface {
	// Query returns the first descendant matching selector.
	// ok is false when nothing matches; that is not an error.
	Query(ctx context.Context, selector string) (el Element, ok bool, err error)

	// QueryAll returns every descendant matching selector
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// Text returns the combined text content of the element and its descendants
	Text(ctx context.Context) (string, error)

	// Attr returns the value of the named attribute
	Attr(ctx context.Context, name string) (value string, ok bool, err error)
}

// HTMLDocument is a Document backed by a goquery parse tree
type HTMLDocument struct {
	doc *goquery.Document
}

// Parse builds a Document from an HTML stream
func Parse(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// FromHTML builds a Document from an HTML string
func FromHTML(html string) (*HTMLDocument, error) {
	return Parse(strings.NewReader(html))
}

// QueryAll implements Document
func (d *HTMLDocument) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return queryAll(ctx, d.doc.Selection, selector)
}

// Title returns the trimmed document title
func (d *HTMLDocument) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// HTML returns the serialized document
func (d *HTMLDocument) HTML() string {
	html, _ := d.doc.Html()
	return html
}

// ScriptCount returns the number of <script> elements in the document
func (d *HTMLDocument) ScriptCount() int {
	return d.doc.Find("script").Length()
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Query(ctx context.Context, selector string) (Element, bool, error) {
	matches, err := queryAll(ctx, e.sel, selector)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, nil
	}
	return matches[0], true, nil
}

func (e htmlElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return queryAll(ctx, e.sel, selector)
}

func (e htmlElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.sel.Text(), nil
}

func (e htmlElement) Attr(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func queryAll(ctx context.Context, root *goquery.Selection, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// goquery silently matches nothing on an invalid selector; compile first to surface it
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	found := root.FindMatcher(matcher)
	elements := make([]Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, htmlElement{sel: s})
	})
	return elements, nil
}

// Package catalog turns product listing pages into PageResults and drives the crawl.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/shopcrawl/internal/dom"
	"github.com/law-makers/shopcrawl/pkg/models"
)

// Selectors are the CSS queries used to read a listing page
type Selectors struct {
	Item        string // repeated product container
	Name        string // required, relative to Item
	Price       string // optional, relative to Item
	Description string // optional, relative to Item
	Link        string // anchors to follow, relative to the document
}

// DefaultSelectors returns the selectors of the reference store layout
func DefaultSelectors() Selectors {
	return Selectors{
		Item:        ".product-item",
		Name:        ".product-name",
		Price:       ".product-price",
		Description: ".product-description",
		Link:        "a.product-name",
	}
}

// Extract reads every product container of doc into a PageResult keyed by sourceURL.
// Containers without a non-blank name are skipped. It only reads the document.
func Extract(ctx context.Context, doc dom.Document, sourceURL string, sel Selectors) (models.PageResult, error) {
	result := models.PageResult{
		URL:      sourceURL,
		Products: []models.ProductRecord{},
	}

	items, err := doc.QueryAll(ctx, sel.Item)
	if err != nil {
		return models.PageResult{}, fmt.Errorf("query %q: %w", sel.Item, err)
	}

	for _, item := range items {
		name, err := field(ctx, item, sel.Name)
		if err != nil {
			return models.PageResult{}, err
		}
		if name == nil || *name == "" {
			continue
		}

		price, err := field(ctx, item, sel.Price)
		if err != nil {
			return models.PageResult{}, err
		}
		description, err := field(ctx, item, sel.Description)
		if err != nil {
			return models.PageResult{}, err
		}

		result.Products = append(result.Products, models.ProductRecord{
			Name:        *name,
			Price:       price,
			Description: description,
		})
	}

	return result, nil
}

// field returns the trimmed text of the first descendant matching selector,
// or nil if there is none
func field(ctx context.Context, item dom.Element, selector string) (*string, error) {
	if selector == "" {
		return nil, nil
	}

	el, ok, err := item.Query(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if !ok {
		return nil, nil
	}

	text, err := el.Text(ctx)
	if err != nil {
		return nil, fmt.Errorf("read text of %q: %w", selector, err)
	}
	return models.StringPtr(strings.TrimSpace(text)), nil
}

// Package storage persists PageResults. Every Sink is safe for concurrent use.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/shopcrawl/pkg/models"
)

// Sink receives one PageResult per successfully processed page
type Sink interface {
	Append(ctx context.Context, result models.PageResult) error
	Close() error
}

// Open picks a sink from the output path:
// .jsonl/.ndjson, .csv and .db/.sqlite/.sqlite3 files, anything else is a dataset directory.
func Open(path string) (Sink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage: empty output path")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return NewJSONLSink(path)
	case ".csv":
		return NewCSVSink(path)
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSink(path)
	default:
		return NewDatasetSink(path)
	}
}

// nonNil guarantees products encode as [] rather than null
func nonNil(result models.PageResult) models.PageResult {
	if result.Products == nil {
		result.Products = []models.ProductRecord{}
	}
	return result
}

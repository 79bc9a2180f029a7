package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/law-makers/shopcrawl/pkg/models"
)

var datasetItemName = regexp.MustCompile(`^(\d{9})\.json$`)

// DatasetSink writes every result to its own numbered file in a directory
// (000000001.json, 000000002.json, ...). Numbering continues after existing items.
type DatasetSink struct {
	dir  string
	mu   sync.Mutex
	next int
}

// NewDatasetSink creates dir if needed and resumes numbering after its last item
func NewDatasetSink(dir string) (*DatasetSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}
	last := 0
	for _, e := range entries {
		m := datasetItemName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n > last {
			last = n
		}
	}

	return &DatasetSink{dir: dir, next: last + 1}, nil
}

// Append writes result as the next numbered item
func (s *DatasetSink) Append(ctx context.Context, result models.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := json.MarshalIndent(nonNil(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode page result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, fmt.Sprintf("%09d.json", s.next))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.next++
	return nil
}

// Close is a no-op; items are complete files as soon as Append returns
func (s *DatasetSink) Close() error { return nil }

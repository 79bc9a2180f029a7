package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/law-makers/shopcrawl/pkg/models"
)

// JSONLSink appends one JSON document per line
type JSONLSink struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// NewJSONLSink opens path for appending
func NewJSONLSink(path string) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &JSONLSink{file: f, w: bufio.NewWriter(f)}, nil
}

// Append writes result as one line and flushes it
func (s *JSONLSink) Append(ctx context.Context, result models.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(nonNil(result))
	if err != nil {
		return fmt.Errorf("failed to encode page result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(append(line, '\n')); err != nil {
		return err
	}
	return s.w.Flush()
}

// Close flushes and closes the file
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/law-makers/shopcrawl/pkg/models"
)

var csvHeader = []string{"url", "name", "price", "description"}

// CSVSink writes one row per product. Pages without products produce no rows.
// Absent fields are written as empty cells.
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink creates (or truncates) path and writes the header
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		file.Close()
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, err
	}

	return &CSVSink{file: file, writer: writer}, nil
}

// Append writes the rows of result
func (s *CSVSink) Append(ctx context.Context, result models.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range result.Products {
		row := []string{result.URL, p.Name, deref(p.Price), deref(p.Description)}
		if err := s.writer.Write(row); err != nil {
			return err
		}
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the file
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

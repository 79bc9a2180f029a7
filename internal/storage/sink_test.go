package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/law-makers/shopcrawl/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() models.PageResult {
	return models.PageResult{
		URL: "https://shop.test/store",
		Products: []models.ProductRecord{
			{Name: "Mouse", Price: models.StringPtr("$49.99"), Description: models.StringPtr("Wireless")},
			{Name: "Pad"},
		},
	}
}

func TestOpen_PicksByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		path string
		want interface{}
	}{
		{filepath.Join(dir, "out.jsonl"), &JSONLSink{}},
		{filepath.Join(dir, "out.NDJSON"), &JSONLSink{}},
		{filepath.Join(dir, "out.csv"), &CSVSink{}},
		{filepath.Join(dir, "out.db"), &SQLiteSink{}},
		{filepath.Join(dir, "datasets", "default"), &DatasetSink{}},
	}

	for _, tt := range tests {
		sink, err := Open(tt.path)
		require.NoError(t, err, tt.path)
		assert.IsType(t, tt.want, sink, tt.path)
		require.NoError(t, sink.Close())
	}

	_, err := Open("  ")
	assert.Error(t, err)
}

func TestDatasetSink_NumberedItems(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "default")
	sink, err := NewDatasetSink(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Append(ctx, samplePage()))
	require.NoError(t, sink.Append(ctx, models.PageResult{URL: "https://shop.test/empty"}))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "000000001.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"url": "https://shop.test/store",
		"products": [
			{"name": "Mouse", "price": "$49.99", "description": "Wireless"},
			{"name": "Pad", "price": null, "description": null}
		]
	}`, string(raw))

	raw, err = os.ReadFile(filepath.Join(dir, "000000002.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"url": "https://shop.test/empty", "products": []}`, string(raw))

	// Reopening continues the numbering
	again, err := NewDatasetSink(dir)
	require.NoError(t, err)
	require.NoError(t, again.Append(ctx, samplePage()))
	assert.FileExists(t, filepath.Join(dir, "000000003.json"))
}

func TestDatasetSink_ConcurrentAppends(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDatasetSink(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sink.Append(context.Background(), samplePage()))
		}()
	}
	wg.Wait()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestJSONLSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.jsonl")
	sink, err := NewJSONLSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Append(context.Background(), samplePage()))
	require.NoError(t, sink.Append(context.Background(), models.PageResult{URL: "https://shop.test/empty"}))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []models.PageResult
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var pr models.PageResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &pr))
		lines = append(lines, pr)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, samplePage(), lines[0])
	assert.Equal(t, "https://shop.test/empty", lines[1].URL)
	assert.Empty(t, lines[1].Products)
}

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Append(context.Background(), samplePage()))
	require.NoError(t, sink.Append(context.Background(), models.PageResult{URL: "https://shop.test/empty"}))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"url", "name", "price", "description"},
		{"https://shop.test/store", "Mouse", "$49.99", "Wireless"},
		{"https://shop.test/store", "Pad", "", ""},
	}, records)
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	sink, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	ctx := context.Background()
	require.NoError(t, sink.Append(ctx, samplePage()))
	require.NoError(t, sink.Append(ctx, models.PageResult{URL: "https://shop.test/empty"}))

	results, err := sink.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, samplePage(), results[0])
	assert.Equal(t, models.PageResult{URL: "https://shop.test/empty", Products: []models.ProductRecord{}}, results[1])
}

func TestAppend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink, err := NewDatasetSink(t.TempDir())
	require.NoError(t, err)
	assert.ErrorIs(t, sink.Append(ctx, samplePage()), context.Canceled)
}

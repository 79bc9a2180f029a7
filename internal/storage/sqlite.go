package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/law-makers/shopcrawl/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS page_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT NOT NULL,
	scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	page_id INTEGER NOT NULL REFERENCES page_results(id),
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	price TEXT,
	description TEXT
);

CREATE INDEX IF NOT EXISTS idx_page_results_url ON page_results(url);
CREATE INDEX IF NOT EXISTS idx_products_page ON products(page_id);
`

// SQLiteSink stores results in a SQLite database, one transaction per page.
// Absent price/description are stored as NULL.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and applies the schema
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer; database/sql queues the rest
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Append inserts the page and its products atomically
func (s *SQLiteSink) Append(ctx context.Context, result models.PageResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO page_results (url) VALUES (?)`, result.URL)
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	pageID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (page_id, position, name, price, description) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range result.Products {
		if _, err := stmt.ExecContext(ctx, pageID, i, p.Name, nullString(p.Price), nullString(p.Description)); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
	}

	return tx.Commit()
}

// Results reads back every stored page in insertion order
func (s *SQLiteSink) Results(ctx context.Context) ([]models.PageResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pr.id, pr.url, p.name, p.price, p.description
		FROM page_results pr
		LEFT JOIN products p ON p.page_id = pr.id
		ORDER BY pr.id, p.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		results []models.PageResult
		lastID  int64 = -1
	)
	for rows.Next() {
		var (
			id                 int64
			url                string
			name, price, descr sql.NullString
		)
		if err := rows.Scan(&id, &url, &name, &price, &descr); err != nil {
			return nil, err
		}
		if id != lastID {
			results = append(results, models.PageResult{URL: url, Products: []models.ProductRecord{}})
			lastID = id
		}
		if !name.Valid {
			continue
		}
		cur := &results[len(results)-1]
		cur.Products = append(cur.Products, models.ProductRecord{
			Name:        name.String,
			Price:       fromNull(price),
			Description: fromNull(descr),
		})
	}
	return results, rows.Err()
}

// Close closes the database
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return models.StringPtr(ns.String)
}

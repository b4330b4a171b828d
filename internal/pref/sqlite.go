package pref

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const schema = `
CREATE TABLE IF NOT EXISTS pins (
    dataset    TEXT PRIMARY KEY,
    version    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite stores pins in a local SQLite database in WAL mode.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and creates the
// schema if needed.
func NewSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("pref: creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("pref: open database: %w", err)
	}

	// One connection: SQLite has a single writer and each pooled connection
	// would need its own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pref: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pref: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("pref: create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get returns the pin of dataset.
func (s *SQLite) Get(ctx context.Context, dataset string) (string, bool, error) {
	var version string
	err := s.db.QueryRowContext(ctx, "SELECT version FROM pins WHERE dataset = ?", dataset).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pref: get pin %q: %w", dataset, err)
	}
	return version, true, nil
}

// Set upserts the pin of dataset.
func (s *SQLite) Set(ctx context.Context, dataset, version string) error {
	const q = `
		INSERT INTO pins (dataset, version, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(dataset) DO UPDATE SET version = excluded.version, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q, dataset, version); err != nil {
		return fmt.Errorf("pref: set pin %q=%q: %w", dataset, version, err)
	}
	return nil
}

// Clear deletes the pin of dataset.
func (s *SQLite) Clear(ctx context.Context, dataset string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pins WHERE dataset = ?", dataset); err != nil {
		return fmt.Errorf("pref: clear pin %q: %w", dataset, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Package duckdb provides an optional catalog of simulated markers.
// Each run is recorded in the runs table and its markers are streamed into
// the markers table with the DuckDB Appender API.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for the marker catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		source VARCHAR,
		seq_size BIGINT,
		dist BIGINT,
		lambd DOUBLE,
		seed VARCHAR,
		ibd_start BIGINT,
		ibd_stop BIGINT,
		ibd_size BIGINT,
		out_path VARCHAR,
		out_bytes BIGINT,
		markers BIGINT,
		created_at TIMESTAMP DEFAULT current_timestamp
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS markers (
		run_id VARCHAR,
		idx BIGINT,
		pos BIGINT,
		freq DOUBLE,
		in_ibd BOOLEAN,
		a1 UTINYINT,
		a2 UTINYINT,
		b1 UTINYINT,
		b2 UTINYINT
	)`)
	return err
}

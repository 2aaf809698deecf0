// Package duckdb exports triage runs to a DuckDB database so kept variants
// can be queried across runs.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding triage runs and their rows.
type Store struct {
	db *sql.DB
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
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

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS triage_runs (
		run_id BIGINT PRIMARY KEY,
		input_path VARCHAR,
		input_size BIGINT,
		input_modtime TIMESTAMP,
		min_dp INTEGER,
		min_qual DOUBLE,
		max_af DOUBLE,
		include_nonpass BOOLEAN,
		gene_count INTEGER,
		records INTEGER,
		kept INTEGER,
		created_at TIMESTAMP
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS triage_rows (
		run_id BIGINT,
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		gene VARCHAR,
		consequence VARCHAR,
		hgvs_c VARCHAR,
		hgvs_p VARCHAR,
		af DOUBLE,
		gt VARCHAR,
		dp INTEGER,
		ab DOUBLE,
		filters VARCHAR
	)`)
	return err
}

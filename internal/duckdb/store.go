// Package duckdb exports labeled training tables to a DuckDB database so
// feature distributions can be inspected with SQL after a training run.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/varscope/evf/internal/train"
)

// Store manages a DuckDB connection holding exported training examples.
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
			return nil, fmt.Errorf("create export directory: %w", err)
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

// ensureSchema creates the training_examples table if it doesn't exist.
// Columns mirror the feature vector order.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS training_examples (
		qd DOUBLE,
		mq DOUBLE,
		fs DOUBLE,
		mq_rank_sum DOUBLE,
		read_pos_rank_sum DOUBLE,
		sor DOUBLE,
		is_het DOUBLE,
		ref_depth DOUBLE,
		alt_depth DOUBLE,
		ref_depth_fraction DOUBLE,
		alt_to_ref_ratio DOUBLE,
		label INTEGER
	)`)
	return err
}

// WriteTable appends every labeled row of the table in order.
func (s *Store) WriteTable(table *train.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin export transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO training_examples VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, vec := range table.X {
		args := make([]any, 0, 12)
		for _, v := range vec {
			args = append(args, v)
		}
		args = append(args, table.Y[i])
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert example %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

// Count returns the number of exported examples.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM training_examples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count examples: %w", err)
	}
	return n, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog keeps a small SQLite ledger of past runs: when each
// run happened, what every source contributed, and what was written
// where. It stores accounting only — never record content — so
// reconciliation stays a full recompute from upstream on every run.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one ledger entry.
type Run struct {
	// ID is a random identifier assigned when the run is recorded.
	ID string

	// Started is when the run began.
	Started time.Time

	// Written is the number of canonical records published; 0 for a
	// failed run.
	Written int

	// Merged counts candidate records folded into another record.
	Merged int

	// Dropped counts unusable candidate records.
	Dropped int

	// Output is the path the run published to, empty when nothing was
	// written.
	Output string

	// Sources holds per-source contributions in priority order.
	Sources []SourceCount
}

// SourceCount is one source's contribution to a run.
type SourceCount struct {
	Name  string
	Count int
	Err   string
}

// Store manages the run ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the
// schema and any missing parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started TEXT NOT NULL,
			written INTEGER NOT NULL,
			merged INTEGER NOT NULL,
			dropped INTEGER NOT NULL,
			output TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_sources (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			count INTEGER NOT NULL,
			error TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and its source counts in one transaction and
// returns the assigned run id.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Started.IsZero() {
		run.Started = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started, written, merged, dropped, output)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Started.UTC().Format(time.RFC3339Nano),
		run.Written, run.Merged, run.Dropped, run.Output,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for i, src := range run.Sources {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_sources (run_id, position, name, count, error)
			 VALUES (?, ?, ?, ?, ?)`,
			run.ID, i, src.Name, src.Count, src.Err,
		)
		if err != nil {
			return "", fmt.Errorf("inserting source count for %s: %w", src.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent runs, newest first, with their source
// counts in priority order. limit <= 0 defaults to 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started, written, merged, dropped, output
		 FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Written, &r.Merged, &r.Dropped, &r.Output); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			r.Started = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		sources, err := s.runSources(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Sources = sources
	}
	return runs, nil
}

func (s *Store) runSources(ctx context.Context, runID string) ([]SourceCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, count, error FROM run_sources
		 WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying source counts: %w", err)
	}
	defer rows.Close()

	var sources []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Name, &sc.Count, &sc.Err); err != nil {
			return nil, fmt.Errorf("scanning source count: %w", err)
		}
		sources = append(sources, sc)
	}
	return sources, rows.Err()
}

// Package runlog records automation runs in a local sqlite database. Every
// analyze/health/suggest invocation and every scheduler tick appends one
// row; the health aggregator reads the trailing window back to score
// automation reliability.
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

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    command TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('ok', 'error')),
    detail TEXT NOT NULL DEFAULT '',
    started_at DATETIME NOT NULL,
    finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one recorded automation run.
type Run struct {
	ID         string
	Command    string
	Status     string
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Counts summarizes a trailing window of runs.
type Counts struct {
	Runs      int
	Successes int
	Failures  int
}

// Store is the sqlite-backed run log.
type Store struct {
	db *sql.DB
}

// Open creates or opens the run log database at path, creating the parent
// directory and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating runlog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening runlog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging runlog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing runlog schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends one run row, assigning an ID when absent.
func (s *Store) Insert(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, status, detail, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Status, run.Detail,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Record wraps fn, timestamps it and stores its outcome. The error from fn
// is returned unchanged so callers keep their own handling.
func (s *Store) Record(ctx context.Context, command string, fn func() error) error {
	started := time.Now()
	runErr := fn()

	run := Run{
		Command:    command,
		Status:     StatusOK,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		run.Status = StatusError
		run.Detail = runErr.Error()
	}

	if err := s.Insert(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
	return runErr
}

// CountSince returns run totals for the window starting at since.
func (s *Store) CountSince(ctx context.Context, since time.Time) (Counts, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0)
		 FROM runs WHERE started_at >= ?`,
		since.UTC())

	var c Counts
	if err := row.Scan(&c.Runs, &c.Successes, &c.Failures); err != nil {
		return Counts{}, fmt.Errorf("counting runs: %w", err)
	}
	return c, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, status, detail, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Command, &r.Status, &r.Detail, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Package history persists smoke run results to a local SQLite database so
// past runs can be listed and compared from the CLI.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// Run is a single recorded script execution
type Run struct {
	ID        int64
	Script    string
	StartedAt time.Time
	Duration  time.Duration
	OK        int
	Failed    int
	Passed    bool
}

// Store records and lists smoke runs
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	script      TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	ok          INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	passed      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_script ON runs(script);
`

// Open opens (creating if needed) the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a completed run
func (s *Store) Record(run Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (script, started_at, duration_ms, ok, failed, passed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Script,
		run.StartedAt.UnixMilli(),
		run.Duration.Milliseconds(),
		run.OK,
		run.Failed,
		boolToInt(run.Passed),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. If script is non-empty,
// only runs of that script are returned.
func (s *Store) List(script string, limit int) ([]Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, script, started_at, duration_ms, ok, failed, passed
	          FROM runs`
	args := []interface{}{}
	if script != "" {
		query += ` WHERE script = ?`
		args = append(args, script)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedMs  int64
			durationMs int64
			passed     int
		)
		if err := rows.Scan(&r.ID, &r.Script, &startedMs, &durationMs, &r.OK, &r.Failed, &passed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.Passed = passed != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

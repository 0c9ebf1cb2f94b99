// Package ledger records the outcome of every part conversion in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Conversion statuses
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one recorded conversion
type Entry struct {
	ID         int64
	RunID      string
	Item       string
	Profile    string
	Status     string
	Triangles  int
	Vertices   int
	Edges      int
	Snapped    int
	Error      string
	Duration   time.Duration
	FinishedAt time.Time
}

// Ledger is the conversion history database
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			item TEXT NOT NULL,
			profile TEXT NOT NULL,
			status TEXT NOT NULL,
			triangles INTEGER,
			vertices INTEGER,
			edges INTEGER,
			snapped INTEGER,
			error TEXT,
			duration_ms INTEGER,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_item ON conversions(item)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores an entry under runID and returns its id
func (l *Ledger) Record(ctx context.Context, runID string, e Entry) (int64, error) {
	finished := e.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO conversions
			(run_id, item, profile, status, triangles, vertices, edges, snapped, error, duration_ms, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, e.Item, e.Profile, e.Status, e.Triangles, e.Vertices, e.Edges, e.Snapped, e.Error,
		e.Duration.Milliseconds(), finished.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording conversion of %s %s: %w", e.Item, e.Profile, err)
	}
	return res.LastInsertId()
}

// Recent returns the latest entries, newest first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, run_id, item, profile, status, triangles, vertices, edges, snapped,
			COALESCE(error, ''), duration_ms, finished_at
		FROM conversions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			ms       int64
			finished string
		)
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.Item, &e.Profile, &e.Status,
			&e.Triangles, &e.Vertices, &e.Edges, &e.Snapped,
			&e.Error, &ms, &finished,
		); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parsing finish time of conversion %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

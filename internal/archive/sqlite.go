// Package archive keeps a SQLite history of runs replaced by a forced init.
package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/watchfire-io/nanny/internal/models"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no archived run matches the requested ID.
var ErrNotFound = errors.New("archived run not found")

// Entry is the summary row of an archived run.
type Entry struct {
	Seq        int64         `json:"seq"`
	RunID      string        `json:"runId"`
	Goal       string        `json:"goal"`
	Counts     models.Counts `json:"counts"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	ArchivedAt time.Time     `json:"archivedAt"`
}

// Storage is an archive backed by a SQLite file.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the archive at dbPath.
func New(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", dbPath, err)
	}

	s := &Storage{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate archive %s: %w", dbPath, err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		goal TEXT NOT NULL,
		total INTEGER NOT NULL,
		done INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		running INTEGER NOT NULL,
		pending INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		archived_at TEXT NOT NULL,
		document TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Archive stores a snapshot of run. The same run may be archived more than once.
func (s *Storage) Archive(run *models.Run) error {
	doc, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	c := run.Counts()
	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, goal, total, done, failed, running, pending, created_at, updated_at, archived_at, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Goal, c.Total, c.Done, c.Failed, c.Running, c.Pending,
		formatTime(run.CreatedAt), formatTime(run.UpdatedAt), formatTime(s.now()), string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to insert archived run: %w", err)
	}
	return nil
}

// ListRuns returns the most recently archived runs first.
func (s *Storage) ListRuns(limit int) ([]*Entry, error) {
	rows, err := s.db.Query(
		`SELECT seq, run_id, goal, total, done, failed, running, pending, created_at, updated_at, archived_at
		 FROM runs ORDER BY seq DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var createdAt, updatedAt, archivedAt string

		err := rows.Scan(
			&e.Seq, &e.RunID, &e.Goal,
			&e.Counts.Total, &e.Counts.Done, &e.Counts.Failed, &e.Counts.Running, &e.Counts.Pending,
			&createdAt, &updatedAt, &archivedAt,
		)
		if err != nil {
			return nil, err
		}

		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		if e.ArchivedAt, err = parseTime(archivedAt); err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// GetRun returns the most recent archived document for runID.
func (s *Storage) GetRun(runID string) (*models.Run, error) {
	var doc string
	err := s.db.QueryRow(
		`SELECT document FROM runs WHERE run_id = ? ORDER BY seq DESC LIMIT 1`, runID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	var run models.Run
	if err := json.Unmarshal([]byte(doc), &run); err != nil {
		return nil, fmt.Errorf("failed to parse archived run %s: %w", runID, err)
	}
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

package export

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bible-hub/BibleOrgSys/core/book"
	"github.com/bible-hub/BibleOrgSys/core/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	book       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	priority INTEGER NOT NULL,
	message  TEXT NOT NULL,
	book     TEXT NOT NULL,
	chapter  TEXT NOT NULL,
	verse    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
`

// Store persists the prioritized diagnostics of check runs.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the diagnostics store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records one check run and its diagnostics, returning the new
// run's ID.
func (s *Store) SaveRun(bookCode string, diags []book.Diagnostic) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, book, created_at) VALUES (?, ?, ?)`,
		runID, bookCode, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO diagnostics
		(run_id, position, priority, message, book, chapter, verse)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range diags {
		if _, err := stmt.Exec(runID, i, d.Priority, d.Message, d.Book, d.Chapter, d.Verse); err != nil {
			return "", fmt.Errorf("inserting diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunInfo summarizes one stored check run.
type RunInfo struct {
	ID              string
	Book            string
	CreatedAt       string
	DiagnosticCount int
}

// Runs lists the stored check runs, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.book, r.created_at, COUNT(d.run_id)
		FROM runs r LEFT JOIN diagnostics d ON d.run_id = r.id
		GROUP BY r.id ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Book, &info.CreatedAt, &info.DiagnosticCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Diagnostics returns the diagnostics of one run in recorded order.
func (s *Store) Diagnostics(runID string) ([]book.Diagnostic, error) {
	rows, err := s.db.Query(`
		SELECT priority, message, book, chapter, verse
		FROM diagnostics WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var out []book.Diagnostic
	for rows.Next() {
		var d book.Diagnostic
		if err := rows.Scan(&d.Priority, &d.Message, &d.Book, &d.Chapter, &d.Verse); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

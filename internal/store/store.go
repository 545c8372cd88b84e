// Package store keeps history of validation runs in an SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ava12/vcfcheck/internal/report"
)

// Run is a summary of a single validated source.
// Seq is the position of the source among sources validated by the same run,
// the same source may be validated more than once.
type Run struct {
	ID       string
	Seq      int
	Source   string
	Started  time.Time
	Valid    bool
	Lines    int
	Records  int
	Errors   int
	Warnings int
}

// timeLayout has fixed width, so stored times sort as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is safe for concurrent use.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	source TEXT NOT NULL,
	started TEXT NOT NULL,
	valid INTEGER NOT NULL,
	lines INTEGER NOT NULL,
	records INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	PRIMARY KEY (id, seq)
);

CREATE TABLE IF NOT EXISTS diagnostics (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	severity TEXT NOT NULL,
	category TEXT NOT NULL,
	code INTEGER NOT NULL,
	line INTEGER NOT NULL,
	col INTEGER NOT NULL,
	message TEXT NOT NULL,
	FOREIGN KEY (run_id, seq) REFERENCES runs(id, seq) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started DESC);
CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id, seq);
`

// Open opens or creates database file. ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps an in-memory database alive
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult stores validation result of a single source under run id and sequence number.
func (s *Store) SaveResult(ctx context.Context, runID string, seq int, started time.Time, r report.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, seq, source, started, valid, lines, records, errors, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, r.Source, started.UTC().Format(timeLayout), r.Valid,
		r.Lines, r.Records, len(r.Errors)+r.Dropped, len(r.Warnings))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (run_id, seq, severity, category, code, line, col, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, list := range [][]report.Diagnostic{r.Errors, r.Warnings} {
		for _, d := range list {
			_, err := stmt.ExecContext(ctx, runID, seq, d.Severity, d.Category, d.Code, d.Line, d.Col, d.Message)
			if err != nil {
				return fmt.Errorf("failed to insert diagnostic: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Runs lists stored runs, most recent first. limit <= 0 means no limit.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seq, source, started, valid, lines, records, errors, warnings
		FROM runs ORDER BY started DESC, id, seq LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		err := rows.Scan(&run.ID, &run.Seq, &run.Source, &started, &run.Valid,
			&run.Lines, &run.Records, &run.Errors, &run.Warnings)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.Started, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("failed to parse run time: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Diagnostics returns stored diagnostics of a run source, errors first.
func (s *Store) Diagnostics(ctx context.Context, runID string, seq int) ([]report.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT severity, category, code, line, col, message
		FROM diagnostics WHERE run_id = ? AND seq = ? ORDER BY rowid`, runID, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	var result []report.Diagnostic
	for rows.Next() {
		var d report.Diagnostic
		if err := rows.Scan(&d.Severity, &d.Category, &d.Code, &d.Line, &d.Col, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

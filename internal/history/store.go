// Package history keeps a SQLite record of qcreport runs and the outcome of
// every section in them.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/qcreport/internal/models"
)

// ErrRunNotFound is returned by Run for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one row of the runs table.
type Run struct {
	ID             string
	InputPath      string
	OutputRoot     string
	StartedAt      time.Time
	Duration       time.Duration
	Requested      int
	Persisted      int
	Failed         int
	RenderFailures int
	Diagnostics    int
}

// SectionRow is one persisted section outcome.
type SectionRow struct {
	Position    int
	Title       string
	Kind        models.SectionKind
	Status      models.Status
	State       models.OutcomeState
	Lines       int
	Artifacts   int
	Error       string
	RenderError string
	Duration    time.Duration
}

// Store manages the run history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens (creating if needed) the history database at dbPath and
// applies pending migrations. ":memory:" opens a private in-memory DB.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.applyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return s, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores result and its outcomes in one transaction. A missing
// RunID is filled in with NewRunID.
func (s *Store) RecordRun(ctx context.Context, result *models.RunResult, diagnostics int) error {
	if result.RunID == "" {
		result.RunID = NewRunID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, input_path, output_root, started_at, duration_ms, requested, persisted, failed, render_failures, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.InputPath, result.OutputRoot, result.StartedAt.UTC(),
		result.Duration.Milliseconds(), len(result.Outcomes), result.Persisted(),
		result.Failed(), result.RenderFailures(), diagnostics)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO section_outcomes
		(run_id, position, title, kind, status, state, lines, artifacts, error_message, render_error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range result.Outcomes {
		_, err := stmt.ExecContext(ctx, result.RunID, i, o.Title, string(o.Kind), string(o.Status),
			string(o.State), o.Lines, len(o.Artifacts), errString(o.Err), errString(o.RenderErr),
			o.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert outcome %q: %w", o.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func errString(err error) sql.NullString {
	if err == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: err.Error(), Valid: true}
}

const runColumns = `id, input_path, output_root, started_at, duration_ms, requested, persisted, failed, render_failures, diagnostics`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var durationMs int64
	err := row.Scan(&r.ID, &r.InputPath, &r.OutputRoot, &r.StartedAt, &durationMs,
		&r.Requested, &r.Persisted, &r.Failed, &r.RenderFailures, &r.Diagnostics)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	return r, err
}

// RecentRuns returns up to limit runs, newest first. limit <= 0 means 20.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns a single run by ID.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	return r, nil
}

// Sections returns the outcomes recorded for a run in request order.
func (s *Store) Sections(ctx context.Context, runID string) ([]SectionRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT position, title, kind, status, state, lines, artifacts,
		COALESCE(error_message, ''), COALESCE(render_error, ''), duration_ms
		FROM section_outcomes WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var out []SectionRow
	for rows.Next() {
		var r SectionRow
		var kind, status, state string
		var durationMs int64
		if err := rows.Scan(&r.Position, &r.Title, &kind, &status, &state, &r.Lines, &r.Artifacts,
			&r.Error, &r.RenderError, &durationMs); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		r.Kind = models.SectionKind(kind)
		r.Status = models.Status(status)
		r.State = models.OutcomeState(state)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}
	return out, nil
}

package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

var (
	// ErrSchemaMismatch indicates the database was written by an incompatible version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("history record not found")
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	timeLayout              = time.RFC3339Nano
)

// Store manages history persistence backed by SQLite. It is safe for
// concurrent use by the batch workers.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Begin records the start of work on sourcePath.
func (s *Store) Begin(ctx context.Context, runID, sourcePath string) (*Record, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return nil, errors.New("history: source path required")
	}
	rec := &Record{
		RunID:      runID,
		SourcePath: sourcePath,
		Status:     StatusRunning,
		StartedAt:  s.now().UTC(),
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (run_id, source_path, status, started_at) VALUES (?, ?, ?, ?)`,
		rec.RunID, rec.SourcePath, string(rec.Status), rec.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert history record: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("history record id: %w", err)
	}
	return rec, nil
}

// Complete marks rec completed and stores the outcome.
func (s *Store) Complete(ctx context.Context, rec *Record, outcome Outcome) error {
	if rec == nil {
		return errors.New("history: nil record")
	}
	rec.Status = StatusCompleted
	rec.OutputPath = outcome.OutputPath
	rec.Silences = outcome.Silences
	rec.Clips = outcome.Clips
	rec.Crossfades = outcome.Crossfades
	rec.SourceSeconds = outcome.SourceSeconds
	rec.KeptSeconds = outcome.KeptSeconds
	rec.RemovedSeconds = outcome.RemovedSeconds
	rec.ErrorMessage = ""
	rec.FinishedAt = s.now().UTC()
	return s.update(ctx, rec)
}

// Fail marks rec with a terminal failure status and the error text.
func (s *Store) Fail(ctx context.Context, rec *Record, status Status, cause error) error {
	if rec == nil {
		return errors.New("history: nil record")
	}
	if !status.IsTerminal() || status == StatusCompleted {
		status = StatusFailed
	}
	rec.Status = status
	if cause != nil {
		rec.ErrorMessage = cause.Error()
	}
	rec.FinishedAt = s.now().UTC()
	return s.update(ctx, rec)
}

func (s *Store) update(ctx context.Context, rec *Record) error {
	res, err := s.execWithRetry(ctx, `UPDATE runs SET
		output_path = ?, status = ?, silences = ?, clips = ?, crossfades = ?,
		source_seconds = ?, kept_seconds = ?, removed_seconds = ?,
		error_message = ?, finished_at = ?
		WHERE id = ?`,
		rec.OutputPath, string(rec.Status), rec.Silences, rec.Clips, rec.Crossfades,
		rec.SourceSeconds, rec.KeptSeconds, rec.RemovedSeconds,
		rec.ErrorMessage, formatTime(rec.FinishedAt), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update history record %d: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update history record %d: %w", rec.ID, ErrNotFound)
	}
	return nil
}

const selectColumns = `id, run_id, source_path, output_path, status, silences, clips, crossfades,
	source_seconds, kept_seconds, removed_seconds, error_message, started_at, finished_at`

// Get returns a single record by id.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+selectColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Statuses []Status
	RunID    string
	Limit    int
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		clauses = append(clauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, filter.RunID)
	}
	query := `SELECT ` + selectColumns + ` FROM runs`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return records, nil
}

// Completed reports whether sourcePath has a completed record.
func (s *Store) Completed(ctx context.Context, sourcePath string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM runs WHERE source_path = ? AND status = ?`,
		sourcePath, string(StatusCompleted),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check history for %s: %w", sourcePath, err)
	}
	return count > 0, nil
}

// Stats counts records per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan history stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// AbandonRunning marks records left running by an interrupted batch as
// failed. It returns the number of records changed.
func (s *Store) AbandonRunning(ctx context.Context, reason string) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE status = ?`,
		string(StatusFailed), reason, s.now().UTC().Format(timeLayout), string(StatusRunning),
	)
	if err != nil {
		return 0, fmt.Errorf("abandon running records: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec      Record
		status   string
		started  string
		finished string
	)
	if err := row.Scan(
		&rec.ID, &rec.RunID, &rec.SourcePath, &rec.OutputPath, &status,
		&rec.Silences, &rec.Clips, &rec.Crossfades,
		&rec.SourceSeconds, &rec.KeptSeconds, &rec.RemovedSeconds,
		&rec.ErrorMessage, &started, &finished,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan history record: %w", err)
	}
	rec.Status = Status(status)
	rec.StartedAt = parseTime(started)
	rec.FinishedAt = parseTime(finished)
	return &rec, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

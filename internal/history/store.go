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
	_ "modernc.org/sqlite"

	"scribe/internal/services"
)

// Store persists runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	defaultRecentLimit      = 20
)

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
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

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin records a new running run and returns it with its assigned ID and
// start time.
func (s *Store) Begin(ctx context.Context, run Run) (Run, error) {
	run.ID = uuid.NewString()
	run.Status = StatusRunning
	run.StartedAt = s.now().UTC()
	run.FinishedAt = time.Time{}

	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, command, source, project, model, language, format, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Source, run.Project, run.Model, run.Language, run.Format,
		string(run.Status), run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, services.Wrap(services.ErrPersistence, "history", "begin", run.Command, err)
	}
	return run, nil
}

// SetProject records the project folder once it is known.
func (s *Store) SetProject(ctx context.Context, id, project string) error {
	if err := s.execWithRetry(ctx, "UPDATE runs SET project = ? WHERE id = ?", project, id); err != nil {
		return services.Wrap(services.ErrPersistence, "history", "set project", id, err)
	}
	return nil
}

// Finish stores the final status of a run. A nil runErr means success;
// context cancellation is recorded as cancelled.
func (s *Store) Finish(ctx context.Context, id string, runErr error) error {
	status := StatusSucceeded
	var kind, message string
	if runErr != nil {
		status = StatusFailed
		if errors.Is(runErr, context.Canceled) {
			status = StatusCancelled
		}
		kind = services.Kind(runErr)
		message = runErr.Error()
	}
	finished := s.now().UTC().Format(time.RFC3339Nano)

	// The caller's context may already be cancelled when an interrupted run
	// is recorded.
	ctx = context.WithoutCancel(ensureContext(ctx))
	err := s.execWithRetry(ctx,
		"UPDATE runs SET status = ?, error_kind = ?, error_message = ?, finished_at = ? WHERE id = ?",
		string(status), kind, message, finished, id,
	)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "history", "finish", id, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, command, source, project, model, language, format, status,
                error_kind, error_message, started_at, finished_at
         FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "history", "recent", "", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrPersistence, "history", "recent", "scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "history", "recent", "", err)
	}
	return runs, nil
}

// Get returns one run by ID.
func (s *Store) Get(ctx context.Context, id string) (Run, bool, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, command, source, project, model, language, format, status,
                error_kind, error_message, started_at, finished_at
         FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, services.Wrap(services.ErrPersistence, "history", "get", id, err)
	}
	return run, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run      Run
		status   string
		started  string
		finished string
	)
	if err := row.Scan(&run.ID, &run.Command, &run.Source, &run.Project, &run.Model, &run.Language,
		&run.Format, &status, &run.ErrorKind, &run.ErrorMessage, &started, &finished); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
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

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
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

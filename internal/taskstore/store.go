// Package taskstore reads the external task store that binds work items to
// agent sessions. The router only ever reads it.
package taskstore

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 500 * time.Millisecond

// StatusActive marks the task currently bound to a session.
const StatusActive = "active"

// Schema is the table layout the store is expected to have.
const Schema = `CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	title           TEXT NOT NULL,
	status          TEXT NOT NULL,
	checklist_total INTEGER NOT NULL DEFAULT 0,
	checklist_done  INTEGER NOT NULL DEFAULT 0,
	updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_session ON tasks (session_id, status);`

const activeTaskQuery = `SELECT id, session_id, title, status, checklist_total, checklist_done, updated_at
FROM tasks
WHERE session_id = ? AND status = ?
ORDER BY updated_at DESC
LIMIT 1`

// Store is a read-only view of the task database.
type Store struct {
	path    string
	timeout time.Duration
	logger  logger.Logger

	mu sync.Mutex
	db *sql.DB
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds each lookup.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a store for the database at path. Nothing is opened until the
// first lookup.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		timeout: DefaultTimeout,
		logger:  logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ActiveTask returns the most recently updated active task of a session, or
// nil when the session has none. Failures wrap session.ErrStoreUnavailable.
func (s *Store) ActiveTask(ctx context.Context, sessionID string) (*session.Task, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		task    session.Task
		updated string
	)

	err = db.QueryRowContext(ctx, activeTaskQuery, sessionID, StatusActive).Scan(
		&task.ID,
		&task.SessionID,
		&task.Title,
		&task.Status,
		&task.ChecklistTotal,
		&task.ChecklistDone,
		&updated,
	)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.Debug("no active task", "session_id", sessionID)

		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.WithSecondaryError(session.ErrStoreUnavailable, err),
			"querying %s", s.path)
	}

	if ts, parseErr := time.Parse(time.RFC3339, updated); parseErr == nil {
		task.UpdatedAt = ts
	}

	return &task, nil
}

// Count returns the number of tasks in the store. It fails like ActiveTask
// when the database is missing or lacks the tasks table.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, errors.Wrapf(errors.WithSecondaryError(session.ErrStoreUnavailable, err),
			"querying %s", s.path)
	}

	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil

	return err
}

func (s *Store) open() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	if s.path == "" {
		return nil, errors.Wrap(session.ErrStoreUnavailable, "no task store path configured")
	}

	if _, err := os.Stat(s.path); err != nil {
		return nil, errors.Wrapf(errors.WithSecondaryError(session.ErrStoreUnavailable, err),
			"opening %s", s.path)
	}

	dsn := (&url.URL{
		Scheme:   "file",
		Path:     s.path,
		RawQuery: "mode=ro&_pragma=busy_timeout(200)",
	}).String()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.WithSecondaryError(session.ErrStoreUnavailable, err),
			"opening %s", s.path)
	}

	s.db = db

	return db, nil
}

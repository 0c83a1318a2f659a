package session

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Snapshot is the State implementation used by the router. The task lookup
// runs at most once per dispatch and its result is shared by all gates.
type Snapshot struct {
	sessionID      string
	cwd            string
	transcriptPath string
	tasks          TaskSource

	once sync.Once
	task *Task
	err  error
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithTaskSource sets the external task store.
func WithTaskSource(src TaskSource) Option {
	return func(s *Snapshot) {
		s.tasks = src
	}
}

// WithTranscriptPath sets the transcript location.
func WithTranscriptPath(path string) Option {
	return func(s *Snapshot) {
		s.transcriptPath = path
	}
}

// NewSnapshot creates a snapshot for one dispatch.
func NewSnapshot(sessionID, cwd string, opts ...Option) *Snapshot {
	s := &Snapshot{sessionID: sessionID, cwd: cwd}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Empty returns a snapshot with no identifiers and no task store.
func Empty() *Snapshot {
	return NewSnapshot("", "")
}

// SessionID returns the host session identifier.
func (s *Snapshot) SessionID() string { return s.sessionID }

// Cwd returns the working directory.
func (s *Snapshot) Cwd() string { return s.cwd }

// TranscriptPath returns the transcript location.
func (s *Snapshot) TranscriptPath() string { return s.transcriptPath }

// ActiveTask returns the task bound to the session.
func (s *Snapshot) ActiveTask(ctx context.Context) (*Task, error) {
	s.once.Do(func() {
		if s.tasks == nil {
			s.err = errors.Wrap(ErrStoreUnavailable, "no task store configured")

			return
		}

		s.task, s.err = s.tasks.ActiveTask(ctx, s.sessionID)
	})

	return s.task, s.err
}

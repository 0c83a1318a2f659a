// Package session provides the read-only session snapshot handed to gates.
//
// The router never owns session data. The snapshot wraps identifiers taken
// from the event and lazily consults an external task store.
package session

//go:generate mockgen -source=state.go -destination=state_mock.go -package=session

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrStoreUnavailable is returned when the external task store cannot be read.
// Gates treat it as a degraded lookup, never as grounds to deny.
var ErrStoreUnavailable = errors.New("task store unavailable")

// Task is an externally tracked unit of work bound to a session.
type Task struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	ChecklistTotal int       `json:"checklist_total"`
	ChecklistDone  int       `json:"checklist_done"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OpenItems returns the number of unchecked checklist items.
func (t *Task) OpenItems() int {
	if t == nil || t.ChecklistDone >= t.ChecklistTotal {
		return 0
	}

	return t.ChecklistTotal - t.ChecklistDone
}

// Summary renders a one-line description for agent context.
func (t *Task) Summary() string {
	if t.ChecklistTotal == 0 {
		return fmt.Sprintf("Active task %s: %s [%s]", t.ID, t.Title, t.Status)
	}

	return fmt.Sprintf(
		"Active task %s: %s [%s, %d/%d checklist items done]",
		t.ID, t.Title, t.Status, t.ChecklistDone, t.ChecklistTotal,
	)
}

// State is the ambient session state visible to gates.
type State interface {
	// SessionID returns the host session identifier.
	SessionID() string

	// Cwd returns the working directory reported by the host.
	Cwd() string

	// TranscriptPath returns the session transcript location, if known.
	TranscriptPath() string

	// ActiveTask returns the task bound to the session, or nil when there is none.
	// Errors wrap ErrStoreUnavailable when the store cannot be consulted.
	ActiveTask(ctx context.Context) (*Task, error)
}

// TaskSource looks up the active task of a session.
type TaskSource interface {
	ActiveTask(ctx context.Context, sessionID string) (*Task, error)
}

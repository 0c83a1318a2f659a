package gates

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

const (
	defaultMissingTaskMessage = "No active task is bound to this session"
	storeUnavailableMessage   = "Task store unavailable; active task not checked"

	defaultClosureReason = "Task {task} still has {open} open checklist items. " +
		"Finish them or update the task before stopping."
	defaultClosureUserReason = "Stop blocked: task {task} has {open} open checklist items"
	loopGuardMessage         = "Task {task} still has {open} open checklist items"
)

// lookupTask consults the session state. The second return is a degraded
// verdict when the store could not be read.
func lookupTask(ctx context.Context, state session.State, log logger.Logger) (*session.Task, *gate.Verdict) {
	if state == nil {
		return nil, gate.Warn(storeUnavailableMessage)
	}

	task, err := state.ActiveTask(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrStoreUnavailable) {
			log.Info("active task lookup failed", "error", err)
		}

		return nil, gate.Warn(storeUnavailableMessage)
	}

	return task, nil
}

func taskValues(t *session.Task) map[string]string {
	return map[string]string{
		"task":  t.ID,
		"title": t.Title,
		"open":  strconv.Itoa(t.OpenItems()),
	}
}

// ActiveTask reports the session's active task as agent context and applies
// a configured decision when there is none. A store failure only warns.
type ActiveTask struct {
	missing gate.Decision
	message string
	log     logger.Logger
}

// NewActiveTask creates an active-task gate.
func NewActiveTask(opts config.ActiveTaskOptions, log logger.Logger) (*ActiveTask, error) {
	missing := gate.DecisionWarn

	if opts.Missing != "" {
		d, err := gate.ParseDecision(opts.Missing)
		if err != nil {
			return nil, errors.Wrap(err, "missing")
		}

		missing = d
	}

	message := opts.Message
	if message == "" && missing != gate.DecisionAllow {
		message = defaultMissingTaskMessage
	}

	return &ActiveTask{missing: missing, message: message, log: log}, nil
}

func (g *ActiveTask) Evaluate(ctx context.Context, _ *event.Event, state session.State) (*gate.Verdict, error) {
	task, degraded := lookupTask(ctx, state, g.log)
	if degraded != nil {
		return degraded, nil
	}

	if task == nil {
		return gate.New(g.missing, g.message), nil
	}

	return gate.Allow().
		WithContext(task.Summary()).
		WithMetadata(MetadataActiveTask, task.ID), nil
}

// TaskClosure blocks stopping while the active task has open checklist items.
// When the host is already continuing because of an earlier block it warns
// instead, so the agent cannot be held in a loop.
type TaskClosure struct {
	reason     string
	userReason string
	log        logger.Logger
}

// NewTaskClosure creates a task-closure gate.
func NewTaskClosure(opts config.TaskClosureOptions, log logger.Logger) *TaskClosure {
	reason := opts.Reason
	if reason == "" {
		reason = defaultClosureReason
	}

	userReason := opts.UserReason
	if userReason == "" {
		userReason = defaultClosureUserReason
	}

	return &TaskClosure{reason: reason, userReason: userReason, log: log}
}

func (g *TaskClosure) Evaluate(ctx context.Context, ev *event.Event, state session.State) (*gate.Verdict, error) {
	if !ev.Kind.IsStopClass() {
		return gate.Allow(), nil
	}

	task, degraded := lookupTask(ctx, state, g.log)
	if degraded != nil {
		return degraded, nil
	}

	if task.OpenItems() == 0 {
		return gate.Allow(), nil
	}

	values := taskValues(task)

	if ev.StopHookActive {
		return gate.Warn(expand(loopGuardMessage, values)).
			WithMetadata(MetadataActiveTask, task.ID), nil
	}

	return gate.BlockStop(expand(g.reason, values)).
		WithUserStopReason(expand(g.userReason, values)).
		WithMetadata(MetadataActiveTask, task.ID), nil
}

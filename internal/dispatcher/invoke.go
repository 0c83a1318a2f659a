package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Result is the outcome of one gate invocation. Verdict is never nil:
// failures and timeouts are already converted to warn verdicts and the
// original error is kept in Err.
type Result struct {
	Name     string
	Verdict  *gate.Verdict
	Err      error
	Duration time.Duration
}

type evaluation struct {
	verdict *gate.Verdict
	err     error
}

// invoke runs one gate bounded by timeout. A gate that ignores cancellation
// is abandoned; its goroutine finishes into a buffered channel.
func invoke(
	ctx context.Context,
	reg registry.Registration,
	ev *event.Event,
	state session.State,
	timeout time.Duration,
) Result {
	start := time.Now()

	gateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan evaluation, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- evaluation{err: &GateExecutionError{
					Gate:     reg.Name,
					Cause:    errors.Newf("%v", r),
					Panicked: true,
				}}
			}
		}()

		v, err := reg.Gate.Evaluate(gateCtx, ev, state)
		if err != nil {
			err = &GateExecutionError{Gate: reg.Name, Cause: err}
		}

		done <- evaluation{verdict: v, err: err}
	}()

	var res evaluation

	select {
	case res = <-done:
	case <-gateCtx.Done():
		res = evaluation{err: &GateTimeoutError{Gate: reg.Name, Timeout: timeout}}
	}

	return Result{
		Name:     reg.Name,
		Verdict:  degrade(res),
		Err:      res.err,
		Duration: time.Since(start),
	}
}

// degrade converts gate failures into warn verdicts so that one failing gate
// never aborts the dispatch.
func degrade(res evaluation) *gate.Verdict {
	var timeoutErr *GateTimeoutError

	switch {
	case errors.As(res.err, &timeoutErr):
		return gate.Warn(fmt.Sprintf(
			"%s; its verdict was not applied", timeoutErr.Error(),
		)).WithMetadata("timed_out_gate", timeoutErr.Gate)
	case res.err != nil:
		return gate.Warn(res.err.Error())
	case res.verdict == nil:
		return gate.Allow()
	default:
		return res.verdict
	}
}

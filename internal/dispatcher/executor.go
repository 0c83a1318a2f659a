package dispatcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// Executor runs resolved gates and returns one result per registration,
// index-aligned with regs.
type Executor interface {
	Execute(
		ctx context.Context,
		ev *event.Event,
		state session.State,
		regs []registry.Registration,
	) []Result
}

// TimeoutFunc returns the bound for a registration.
type TimeoutFunc func(registry.Registration) time.Duration

// SequentialExecutor runs every gate inline in order, ignoring run modes.
type SequentialExecutor struct {
	logger  logger.Logger
	timeout TimeoutFunc
}

// NewSequentialExecutor creates a new SequentialExecutor.
func NewSequentialExecutor(log logger.Logger, timeout TimeoutFunc) *SequentialExecutor {
	return &SequentialExecutor{logger: log, timeout: timeout}
}

// Execute runs gates sequentially.
func (e *SequentialExecutor) Execute(
	ctx context.Context,
	ev *event.Event,
	state session.State,
	regs []registry.Registration,
) []Result {
	results := make([]Result, len(regs))

	for i, reg := range regs {
		results[i] = invoke(ctx, reg, ev, state, e.timeout(reg))
	}

	return results
}

// PhasedExecutor runs sync gates registered before the first async gate, then
// the async gates concurrently, then the remaining sync gates. Every async
// result is awaited before Execute returns.
type PhasedExecutor struct {
	logger         logger.Logger
	timeout        TimeoutFunc
	maxConcurrency int
}

// NewPhasedExecutor creates a PhasedExecutor. maxConcurrency <= 0 starts the
// whole async batch at once.
func NewPhasedExecutor(log logger.Logger, timeout TimeoutFunc, maxConcurrency int) *PhasedExecutor {
	return &PhasedExecutor{logger: log, timeout: timeout, maxConcurrency: maxConcurrency}
}

// Execute runs gates in three phases.
func (e *PhasedExecutor) Execute(
	ctx context.Context,
	ev *event.Event,
	state session.State,
	regs []registry.Registration,
) []Result {
	results := make([]Result, len(regs))
	before, async, after := partition(regs)

	for _, i := range before {
		results[i] = invoke(ctx, regs[i], ev, state, e.timeout(regs[i]))
	}

	e.runBatch(ctx, ev, state, regs, async, results)

	for _, i := range after {
		results[i] = invoke(ctx, regs[i], ev, state, e.timeout(regs[i]))
	}

	return results
}

func (e *PhasedExecutor) runBatch(
	ctx context.Context,
	ev *event.Event,
	state session.State,
	regs []registry.Registration,
	batch []int,
	results []Result,
) {
	if len(batch) == 0 {
		return
	}

	width := e.maxConcurrency
	if width <= 0 || width > len(batch) {
		width = len(batch)
	}

	sem := semaphore.NewWeighted(int64(width))
	start := time.Now()

	var wg sync.WaitGroup

	for _, i := range batch {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			reg := regs[i]
			timeout := e.timeout(reg)

			// The deadline counts from the batch start, so time spent queued
			// for a slot is part of the gate's budget.
			gateCtx, cancel := context.WithDeadline(ctx, start.Add(timeout))
			defer cancel()

			if err := sem.Acquire(gateCtx, 1); err != nil {
				timeoutErr := &GateTimeoutError{Gate: reg.Name, Timeout: timeout}
				results[i] = Result{
					Name:     reg.Name,
					Err:      timeoutErr,
					Verdict:  degrade(evaluation{err: timeoutErr}),
					Duration: time.Since(start),
				}

				return
			}
			defer sem.Release(1)

			e.logger.Debug("running async gate", "gate", reg.Name)

			results[i] = invoke(gateCtx, reg, ev, state, timeout)
		}(i)
	}

	wg.Wait()
}

// partition splits indices into sync-before, async and sync-after groups,
// preserving relative order within each group.
func partition(regs []registry.Registration) (before, async, after []int) {
	seenAsync := false

	for i, reg := range regs {
		switch {
		case reg.Mode == gate.RunModeAsync:
			seenAsync = true

			async = append(async, i)
		case seenAsync:
			after = append(after, i)
		default:
			before = append(before, i)
		}
	}

	return before, async, after
}

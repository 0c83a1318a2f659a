// Package dispatcher resolves the gates for an event, runs them and folds
// their verdicts into one aggregate decision.
package dispatcher

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/smykla-skalski/hookrouter/internal/decision"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

const (
	// DefaultGateTimeout bounds gates without an explicit timeout.
	DefaultGateTimeout = 3 * time.Second
)

// Dispatcher orchestrates gate execution for one event.
type Dispatcher struct {
	registry       *registry.Registry
	logger         logger.Logger
	executor       Executor
	defaultTimeout time.Duration
	maxConcurrency int
	sequential     bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithExecutor replaces the executor.
func WithExecutor(executor Executor) DispatcherOption {
	return func(d *Dispatcher) {
		if executor != nil {
			d.executor = executor
		}
	}
}

// WithDefaultTimeout sets the bound for gates without their own timeout.
func WithDefaultTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.defaultTimeout = timeout
		}
	}
}

// WithMaxConcurrency limits how many async gates run at once.
func WithMaxConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxConcurrency = n
	}
}

// WithSequential runs async gates inline.
func WithSequential(sequential bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.sequential = sequential
	}
}

// NewDispatcher creates a new Dispatcher over a registry.
func NewDispatcher(reg *registry.Registry, log logger.Logger, opts ...DispatcherOption) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	d := &Dispatcher{
		registry:       reg,
		logger:         log,
		defaultTimeout: DefaultGateTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.executor == nil {
		if d.sequential {
			d.executor = NewSequentialExecutor(log, d.timeoutFor)
		} else {
			d.executor = NewPhasedExecutor(log, d.timeoutFor, d.maxConcurrency)
		}
	}

	return d
}

func (d *Dispatcher) timeoutFor(reg registry.Registration) time.Duration {
	if reg.Timeout > 0 {
		return reg.Timeout
	}

	return d.defaultTimeout
}

// Dispatch runs every gate implemented and activated for the event's kind
// and returns the folded aggregate. Verdicts are folded in activation order,
// independent of completion order.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *event.Event, state session.State) decision.Aggregate {
	log := d.logger.With(
		"dispatch_id", ulid.Make().String(),
		"kind", ev.Kind.String(),
		"host", ev.Host,
	)

	resolved := d.registry.Resolve(ev.Kind)
	regs := make([]registry.Registration, 0, len(resolved))

	for _, reg := range resolved {
		if reg.Matches(ev) {
			regs = append(regs, reg)
		} else {
			log.Debug("gate predicate did not match", "gate", reg.Name)
		}
	}

	log.Info("dispatching", "gates", len(regs))

	start := time.Now()
	results := d.executor.Execute(ctx, ev, state, regs)

	acc := decision.NewAccumulator(decision.New(ev.Kind), log)

	for _, res := range results {
		if res.Err != nil {
			log.Error("gate degraded to warn",
				"gate", res.Name,
				"error", res.Err.Error(),
			)
		}

		log.Debug("gate finished",
			"gate", res.Name,
			"decision", res.Verdict.Decision.String(),
			"duration", res.Duration.String(),
		)

		acc.Add(res.Name, res.Verdict)
	}

	agg := acc.Result()

	log.Info("dispatch finished",
		"outcome", agg.Outcome().String(),
		"duration", time.Since(start).String(),
	)

	return agg
}

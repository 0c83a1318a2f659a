// Package gate defines the pluggable decision unit evaluated against lifecycle events.
package gate

import (
	"context"

	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Gate evaluates one policy concern against an event.
//
// Implementations must be safe to call from multiple goroutines and should
// honor ctx cancellation; the dispatcher bounds every call with a timeout.
// Returning a nil verdict with a nil error means allow.
type Gate interface {
	Evaluate(ctx context.Context, ev *event.Event, state session.State) (*Verdict, error)
}

// Func adapts a plain function to the Gate interface.
type Func func(ctx context.Context, ev *event.Event, state session.State) (*Verdict, error)

// Evaluate calls f.
func (f Func) Evaluate(ctx context.Context, ev *event.Event, state session.State) (*Verdict, error) {
	return f(ctx, ev, state)
}

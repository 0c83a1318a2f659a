package host

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/decision"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

const (
	// ExitCodeSuccess makes both hosts parse stdout as JSON.
	ExitCodeSuccess = 0

	// ExitCodeNonBlocking makes both hosts ignore stdout and show stderr to the user.
	ExitCodeNonBlocking = 1

	// ExitCodeBlocking makes both hosts ignore stdout and read stderr as the block reason.
	ExitCodeBlocking = 2
)

// ErrInvalidContract is returned when an exit contract would route a decision
// to a stream the host ignores.
var ErrInvalidContract = errors.New("invalid exit contract")

// Stream is the output stream a host reads for a given exit code.
type Stream int

const (
	// StreamStdout carries one JSON document.
	StreamStdout Stream = iota

	// StreamStderr carries free text.
	StreamStderr
)

func (s Stream) String() string {
	if s == StreamStderr {
		return "stderr"
	}

	return "stdout"
}

// Route is the exit code used for one outcome. The stream follows from it.
type Route struct {
	ExitCode int
}

// Stream returns the stream the host reads for this route.
func (r Route) Stream() Stream {
	if r.ExitCode == ExitCodeSuccess {
		return StreamStdout
	}

	return StreamStderr
}

func (r Route) String() string {
	return fmt.Sprintf("%d/%s", r.ExitCode, r.Stream())
}

func route(code int) *Route {
	return &Route{ExitCode: code}
}

// ExitContract is the per-host, per-kind exit code table. A nil Ask or Block
// route means the host cannot express that outcome for the kind; it then
// degrades to the warn route.
type ExitContract struct {
	Host       string
	Kind       event.Kind
	NativeName string

	Allow Route
	Warn  Route
	Ask   *Route
	Block *Route
	Deny  Route
}

// RouteFor returns the route for an outcome and whether it was degraded to warn.
func (c ExitContract) RouteFor(o decision.Outcome) (Route, decision.Outcome, bool) {
	switch o {
	case decision.OutcomeDeny:
		return c.Deny, o, false
	case decision.OutcomeBlock:
		if c.Block == nil {
			return c.Warn, decision.OutcomeWarn, true
		}

		return *c.Block, o, false
	case decision.OutcomeAsk:
		if c.Ask == nil {
			return c.Warn, decision.OutcomeWarn, true
		}

		return *c.Ask, o, false
	case decision.OutcomeWarn:
		return c.Warn, o, false
	default:
		return c.Allow, decision.OutcomeAllow, false
	}
}

// Validate checks that every route lets the host read the decision:
// allow exits 0; deny uses the blocking code; block is 0 (structured) or the
// blocking code; warn and ask are 0 or the non-blocking code.
func (c ExitContract) Validate() error {
	var errs error

	check := func(outcome string, r *Route, allowed ...int) {
		if r == nil {
			return
		}

		for _, code := range allowed {
			if r.ExitCode == code {
				return
			}
		}

		errs = errors.CombineErrors(errs, errors.Wrapf(ErrInvalidContract,
			"%s %s: %s exit code %d must be one of %v",
			c.Host, c.Kind, outcome, r.ExitCode, allowed,
		))
	}

	check("allow", &c.Allow, ExitCodeSuccess)
	check("warn", &c.Warn, ExitCodeSuccess, ExitCodeNonBlocking)
	check("ask", c.Ask, ExitCodeSuccess, ExitCodeNonBlocking)
	check("block", c.Block, ExitCodeSuccess, ExitCodeBlocking)
	check("deny", &c.Deny, ExitCodeBlocking)

	return errs
}

// ContractOverride replaces selected exit codes of a contract.
type ContractOverride struct {
	Allow *int
	Warn  *int
	Ask   *int
	Block *int
	Deny  *int
}

// Apply returns a copy of c with the override applied. Ask and block
// overrides on kinds that cannot express them are rejected.
func (o ContractOverride) Apply(c ExitContract) (ExitContract, error) {
	out := c

	if o.Allow != nil {
		out.Allow = Route{ExitCode: *o.Allow}
	}

	if o.Warn != nil {
		out.Warn = Route{ExitCode: *o.Warn}
	}

	if o.Deny != nil {
		out.Deny = Route{ExitCode: *o.Deny}
	}

	if o.Ask != nil {
		if c.Ask == nil {
			return c, errors.Wrapf(ErrInvalidContract, "%s %s does not support ask", c.Host, c.Kind)
		}

		out.Ask = route(*o.Ask)
	}

	if o.Block != nil {
		if c.Block == nil {
			return c, errors.Wrapf(ErrInvalidContract, "%s %s does not support block", c.Host, c.Kind)
		}

		out.Block = route(*o.Block)
	}

	if err := out.Validate(); err != nil {
		return c, err
	}

	return out, nil
}

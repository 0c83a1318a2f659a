// Package projector turns an aggregate decision into the exact bytes and
// exit code a host expects.
//
// Exactly one stream carries the decision: stdout JSON for exit 0 routes,
// stderr text for every other route. A decision is never written to a stream
// the chosen exit code makes the host ignore.
package projector

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smykla-skalski/hookrouter/internal/decision"
	"github.com/smykla-skalski/hookrouter/internal/host"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Output is the process result for one dispatch.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int

	// Outcome is the effective outcome after degradation.
	Outcome decision.Outcome

	// Notes lists degradations applied while projecting, for logging.
	Notes []string
}

// EncodingError reports an aggregate the target host cannot represent. It
// signals a programming or configuration defect.
type EncodingError struct {
	Host  string
	Kind  event.Kind
	Cause error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s decision for host %s: %v", e.Kind, e.Host, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// Project encodes agg for the host that produced ev.
func Project(adapter host.Adapter, agg *decision.Aggregate, ev *event.Event) (*Output, error) {
	contract, ok := adapter.Contract(ev.Kind)
	if !ok {
		return nil, &EncodingError{Host: adapter.Name(), Kind: ev.Kind, Cause: host.ErrUnsupportedKind}
	}

	if agg.Kind != ev.Kind {
		return nil, &EncodingError{
			Host:  adapter.Name(),
			Kind:  ev.Kind,
			Cause: fmt.Errorf("aggregate was built for %s", agg.Kind),
		}
	}

	requested := agg.Outcome()
	route, outcome, degraded := contract.RouteFor(requested)

	out := &Output{ExitCode: route.ExitCode, Outcome: outcome}
	userMessage := agg.UserMessage

	if degraded {
		note := degradationNote(contract, requested)
		out.Notes = append(out.Notes, note)
		userMessage = joinLines(userMessage, degradedDetail(agg, requested), note)
	}

	if route.Stream() == host.StreamStderr {
		out.Stderr = []byte(stderrText(agg, outcome, userMessage))

		return out, nil
	}

	if agg.AgentContext != "" && outcome != decision.OutcomeBlock && !adapter.SupportsContext(ev.Kind) {
		out.Notes = append(out.Notes, fmt.Sprintf(
			"%s %s has no agent context channel; context not delivered",
			adapter.Name(), contract.NativeName,
		))
	}

	doc, err := adapter.Document(host.Rendering{
		Event:       ev,
		Aggregate:   agg,
		Outcome:     outcome,
		UserMessage: userMessage,
	})
	if err != nil {
		return nil, &EncodingError{Host: adapter.Name(), Kind: ev.Kind, Cause: err}
	}

	if doc == nil {
		return out, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, &EncodingError{Host: adapter.Name(), Kind: ev.Kind, Cause: err}
	}

	out.Stdout = append(data, '\n')

	return out, nil
}

// stderrText is the free text a host reads on a non-zero exit.
func stderrText(agg *decision.Aggregate, outcome decision.Outcome, userMessage string) string {
	switch outcome {
	case decision.OutcomeDeny:
		reason := agg.DenyReason()
		lines := []string{reason}

		for _, msg := range append([]string{agg.UserMessage}, agg.AdditionalMessages()...) {
			if msg != "" && msg != reason {
				lines = append(lines, msg)
			}
		}

		// Context is independent of the decision; stderr is the only channel
		// the host reads on a blocking exit.
		lines = append(lines, agg.AgentContext)

		return joinLines(lines...) + "\n"
	case decision.OutcomeBlock:
		text := agg.Stop.Reason
		if agg.AgentContext != "" {
			text = joinLines(text, agg.AgentContext)
		}

		return text + "\n"
	default:
		return joinLines(userMessage, agg.AgentContext) + "\n"
	}
}

func degradationNote(c host.ExitContract, requested decision.Outcome) string {
	return fmt.Sprintf("(%s cannot %s on %s; reported as a warning)", c.Host, verb(requested), c.NativeName)
}

// degradedDetail is the text of a degraded stop block, which otherwise only
// lives in the stop decision.
func degradedDetail(agg *decision.Aggregate, requested decision.Outcome) string {
	if requested == decision.OutcomeBlock && agg.Stop != nil {
		return agg.Stop.Reason
	}

	return ""
}

func verb(o decision.Outcome) string {
	if o == decision.OutcomeBlock {
		return "block stopping"
	}

	return "ask for confirmation"
}

func joinLines(parts ...string) string {
	kept := parts[:0:0]

	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, "\n")
}

package host

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/decision"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// GeminiName identifies the Gemini CLI host.
const GeminiName = "gemini"

var geminiNatives = map[string]event.Kind{
	"SessionStart": event.KindSessionStart,
	"SessionEnd":   event.KindSessionEnd,
	"BeforeTool":   event.KindBeforeTool,
	"AfterTool":    event.KindAfterTool,
	"BeforeAgent":  event.KindUserInput,
	"BeforeModel":  event.KindAgentResponseBefore,
	"AfterAgent":   event.KindAgentResponseAfter,
	"Notification": event.KindNotification,
}

var geminiPrimary = map[event.Kind]string{
	event.KindSessionStart:        "SessionStart",
	event.KindSessionEnd:          "SessionEnd",
	event.KindBeforeTool:          "BeforeTool",
	event.KindAfterTool:           "AfterTool",
	event.KindUserInput:           "BeforeAgent",
	event.KindAgentResponseBefore: "BeforeModel",
	event.KindAgentResponseAfter:  "AfterAgent",
	event.KindNotification:        "Notification",
}

var geminiContextKinds = map[event.Kind]bool{
	event.KindSessionStart: true,
	event.KindUserInput:    true,
	event.KindAfterTool:    true,
}

// Gemini adapts Gemini CLI hooks.
type Gemini struct {
	base
}

// NewGemini creates the Gemini CLI adapter.
func NewGemini(opts ...Option) (*Gemini, error) {
	g := &Gemini{base: newBase(GeminiName, geminiNatives, geminiPrimary)}

	for kind := range geminiPrimary {
		contract := ExitContract{
			Allow: Route{ExitCode: ExitCodeSuccess},
			Warn:  Route{ExitCode: ExitCodeSuccess},
			Deny:  Route{ExitCode: ExitCodeBlocking},
		}

		switch kind {
		case event.KindBeforeTool:
			contract.Ask = route(ExitCodeSuccess)
		case event.KindAgentResponseAfter:
			contract.Block = route(ExitCodeSuccess)
		default:
		}

		g.setContract(kind, contract)
	}

	if err := g.applyOverrides(collectOptions(opts).overrides); err != nil {
		return nil, errors.Wrap(err, "applying gemini exit code overrides")
	}

	return g, nil
}

// Claims reports payloads carrying Gemini's timestamp field.
func (*Gemini) Claims(probe Probe) bool {
	return probe.HasTimestamp
}

// Decode builds an event from a Gemini CLI payload.
func (g *Gemini) Decode(raw []byte, nativeEvent string) (*event.Event, error) {
	return g.decode(raw, nativeEvent)
}

// SupportsContext reports whether additionalContext can be sent for kind.
func (*Gemini) SupportsContext(kind event.Kind) bool {
	return geminiContextKinds[kind]
}

type geminiOutput struct {
	SystemMessage      string                `json:"systemMessage,omitempty"`
	Decision           string                `json:"decision,omitempty"`
	Reason             string                `json:"reason,omitempty"`
	HookSpecificOutput *geminiSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

type geminiSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Document builds the Gemini CLI stdout document.
func (g *Gemini) Document(r Rendering) (any, error) {
	kind := r.Event.Kind
	if _, ok := g.primary[kind]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedKind, "gemini %s", kind)
	}

	if r.Outcome == decision.OutcomeDeny {
		return nil, errors.Newf("gemini %s: deny cannot be sent on stdout", kind)
	}

	out := geminiOutput{SystemMessage: r.UserMessage}
	agentContext := r.Aggregate.AgentContext

	switch {
	case r.Outcome == decision.OutcomeBlock && kind.IsStopClass() && r.Aggregate.Stop != nil:
		out.Decision = "block"
		out.Reason = r.Aggregate.Stop.Reason

		if !geminiContextKinds[kind] {
			out.Reason = joinContext(out.Reason, agentContext)
		}

		out.SystemMessage = joinMessages(out.SystemMessage, r.Aggregate.Stop.UserStopReason)
	case r.Outcome == decision.OutcomeAsk && kind == event.KindBeforeTool:
		out.Decision = "ask"
		out.Reason = r.UserMessage
	}

	if geminiContextKinds[kind] && agentContext != "" {
		native := r.Event.HostEventName
		if native == "" {
			native = g.primary[kind]
		}

		out.HookSpecificOutput = &geminiSpecificOutput{
			HookEventName:     native,
			AdditionalContext: agentContext,
		}
	}

	if out == (geminiOutput{}) {
		return nil, nil
	}

	return out, nil
}

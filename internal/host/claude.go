package host

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/decision"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// ClaudeName identifies the Claude Code host.
const ClaudeName = "claude"

var claudeNatives = map[string]event.Kind{
	"SessionStart":     event.KindSessionStart,
	"SessionEnd":       event.KindSessionEnd,
	"PreToolUse":       event.KindBeforeTool,
	"PostToolUse":      event.KindAfterTool,
	"UserPromptSubmit": event.KindUserInput,
	"Stop":             event.KindAgentResponseAfter,
	"SubagentStop":     event.KindAgentResponseAfter,
	"Notification":     event.KindNotification,
}

var claudePrimary = map[event.Kind]string{
	event.KindSessionStart:       "SessionStart",
	event.KindSessionEnd:         "SessionEnd",
	event.KindBeforeTool:         "PreToolUse",
	event.KindAfterTool:          "PostToolUse",
	event.KindUserInput:          "UserPromptSubmit",
	event.KindAgentResponseAfter: "Stop",
	event.KindNotification:       "Notification",
}

// hookSpecificOutput is accepted for these kinds only.
var claudeContextKinds = map[event.Kind]bool{
	event.KindSessionStart: true,
	event.KindUserInput:    true,
	event.KindBeforeTool:   true,
	event.KindAfterTool:    true,
}

// Claude adapts Claude Code hooks.
type Claude struct {
	base
}

// NewClaude creates the Claude Code adapter.
func NewClaude(opts ...Option) (*Claude, error) {
	c := &Claude{base: newBase(ClaudeName, claudeNatives, claudePrimary)}

	for kind := range claudePrimary {
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

		c.setContract(kind, contract)
	}

	if err := c.applyOverrides(collectOptions(opts).overrides); err != nil {
		return nil, errors.Wrap(err, "applying claude exit code overrides")
	}

	return c, nil
}

// Claims reports payloads without Gemini's timestamp field.
func (*Claude) Claims(probe Probe) bool {
	return !probe.HasTimestamp
}

// Decode builds an event from a Claude Code payload.
func (c *Claude) Decode(raw []byte, nativeEvent string) (*event.Event, error) {
	return c.decode(raw, nativeEvent)
}

// SupportsContext reports whether additionalContext can be sent for kind.
func (*Claude) SupportsContext(kind event.Kind) bool {
	return claudeContextKinds[kind]
}

type claudeOutput struct {
	SystemMessage      string                `json:"systemMessage,omitempty"`
	Decision           string                `json:"decision,omitempty"`
	Reason             string                `json:"reason,omitempty"`
	HookSpecificOutput *claudeSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

type claudeSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

// Document builds the Claude Code stdout document.
func (c *Claude) Document(r Rendering) (any, error) {
	kind := r.Event.Kind
	if _, ok := c.primary[kind]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedKind, "claude %s", kind)
	}

	if r.Outcome == decision.OutcomeDeny {
		return nil, errors.Newf("claude %s: deny cannot be sent on stdout", kind)
	}

	native := r.Event.HostEventName
	if native == "" {
		native = c.primary[kind]
	}

	out := claudeOutput{SystemMessage: r.UserMessage}
	specific := claudeSpecificOutput{HookEventName: native}
	agentContext := r.Aggregate.AgentContext

	if r.Outcome == decision.OutcomeBlock && kind.IsStopClass() && r.Aggregate.Stop != nil {
		out.Decision = "block"
		out.Reason = r.Aggregate.Stop.Reason

		if !claudeContextKinds[kind] {
			out.Reason = joinContext(out.Reason, agentContext)
		}

		out.SystemMessage = joinMessages(out.SystemMessage, r.Aggregate.Stop.UserStopReason)
	}

	if r.Outcome == decision.OutcomeAsk && kind == event.KindBeforeTool {
		specific.PermissionDecision = "ask"
		specific.PermissionDecisionReason = r.UserMessage
	}

	if claudeContextKinds[kind] {
		specific.AdditionalContext = agentContext
	}

	if specific != (claudeSpecificOutput{HookEventName: native}) {
		out.HookSpecificOutput = &specific
	}

	if out == (claudeOutput{}) {
		return nil, nil
	}

	return out, nil
}

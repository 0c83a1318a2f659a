// Package decision folds individual gate verdicts into one aggregate decision.
package decision

import (
	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// MetadataAdditionalMessages holds user messages that lost the first-non-empty race.
const MetadataAdditionalMessages = "additional_messages"

// ContextSeparator delimits agent context fragments from different gates.
const ContextSeparator = "\n\n"

//go:generate enumer -type=Outcome -trimprefix=Outcome -transform=kebab -json -text

// Outcome is the projected strength of an aggregate, ordered weakest first.
type Outcome int

const (
	// OutcomeAllow lets the action proceed silently.
	OutcomeAllow Outcome = iota

	// OutcomeWarn lets the action proceed and surfaces a message.
	OutcomeWarn

	// OutcomeAsk requests user confirmation.
	OutcomeAsk

	// OutcomeBlock keeps a stop-class event from ending the session.
	OutcomeBlock

	// OutcomeDeny blocks the action.
	OutcomeDeny
)

// StopDecision is the merged stop control of a stop-class event.
type StopDecision struct {
	Block          bool   `json:"block"`
	Reason         string `json:"reason,omitempty"`
	UserStopReason string `json:"user_stop_reason,omitempty"`
}

// GateOutcome records which decision a gate contributed.
type GateOutcome struct {
	Name     string        `json:"name"`
	Decision gate.Decision `json:"decision"`
}

// Aggregate is the merged result of every gate that ran for one event.
type Aggregate struct {
	Kind event.Kind `json:"kind"`

	// Decision is the strongest gate decision by precedence.
	Decision gate.Decision `json:"decision"`

	// Reason is the message of the first gate that produced the winning decision.
	Reason string `json:"reason,omitempty"`

	// UserMessage is the first non-empty user message in fold order.
	UserMessage string `json:"user_message,omitempty"`

	// AgentContext holds every non-empty context fragment in fold order.
	AgentContext string `json:"agent_context,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	// Stop is set only for stop-class kinds.
	Stop *StopDecision `json:"stop,omitempty"`

	Gates []GateOutcome `json:"gates,omitempty"`
}

// New creates the identity aggregate for a kind.
func New(kind event.Kind) Aggregate {
	agg := Aggregate{Kind: kind, Decision: gate.DecisionAllow}

	if kind.IsStopClass() {
		agg.Stop = &StopDecision{}
	}

	return agg
}

// Outcome returns the projected strength: deny dominates a stop block, which
// dominates ask and warn.
func (a *Aggregate) Outcome() Outcome {
	switch {
	case a.Decision == gate.DecisionDeny:
		return OutcomeDeny
	case a.Stop != nil && a.Stop.Block:
		return OutcomeBlock
	case a.Decision == gate.DecisionAsk:
		return OutcomeAsk
	case a.Decision == gate.DecisionWarn:
		return OutcomeWarn
	default:
		return OutcomeAllow
	}
}

// AdditionalMessages returns user messages beyond the first.
func (a *Aggregate) AdditionalMessages() []string {
	msgs, _ := a.Metadata[MetadataAdditionalMessages].([]string)

	return msgs
}

// DenyReason is the text a host reads on a deny.
func (a *Aggregate) DenyReason() string {
	if a.Reason != "" {
		return a.Reason
	}

	if a.UserMessage != "" {
		return a.UserMessage
	}

	return "blocked by policy"
}

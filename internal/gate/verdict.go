package gate

import "maps"

// Verdict is the immutable result of one gate invocation.
type Verdict struct {
	Decision Decision `json:"decision"`

	// UserMessage is shown to the human.
	UserMessage string `json:"user_message,omitempty"`

	// AgentContext is injected into the agent's next turn.
	AgentContext string `json:"agent_context,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	// Stop asks the host not to end the session. Only honored for stop-class events.
	Stop *StopRequest `json:"stop,omitempty"`
}

// StopRequest asks the host to keep the session going.
type StopRequest struct {
	// Reason is fed back to the agent.
	Reason string `json:"reason"`

	// UserStopReason is shown to the human.
	UserStopReason string `json:"user_stop_reason,omitempty"`
}

// Allow creates an allow verdict.
func Allow() *Verdict {
	return &Verdict{Decision: DecisionAllow}
}

// Warn creates a warn verdict with a user message.
func Warn(message string) *Verdict {
	return &Verdict{Decision: DecisionWarn, UserMessage: message}
}

// Ask creates an ask verdict with a user message.
func Ask(message string) *Verdict {
	return &Verdict{Decision: DecisionAsk, UserMessage: message}
}

// Deny creates a deny verdict with a user message.
func Deny(message string) *Verdict {
	return &Verdict{Decision: DecisionDeny, UserMessage: message}
}

// BlockStop creates an allow verdict that asks the host not to stop.
func BlockStop(reason string) *Verdict {
	return &Verdict{Decision: DecisionAllow, Stop: &StopRequest{Reason: reason}}
}

// New creates a verdict with the given decision and message.
func New(d Decision, message string) *Verdict {
	return &Verdict{Decision: d, UserMessage: message}
}

// WithContext returns a copy carrying agent context.
func (v *Verdict) WithContext(text string) *Verdict {
	c := v.clone()
	c.AgentContext = text

	return c
}

// WithMetadata returns a copy with key set in metadata.
func (v *Verdict) WithMetadata(key string, value any) *Verdict {
	c := v.clone()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any, 1)
	}

	c.Metadata[key] = value

	return c
}

// WithUserStopReason returns a copy whose stop request carries a user-facing reason.
func (v *Verdict) WithUserStopReason(text string) *Verdict {
	c := v.clone()
	if c.Stop == nil {
		return c
	}

	stop := *c.Stop
	stop.UserStopReason = text
	c.Stop = &stop

	return c
}

func (v *Verdict) clone() *Verdict {
	c := *v
	c.Metadata = maps.Clone(v.Metadata)

	return &c
}

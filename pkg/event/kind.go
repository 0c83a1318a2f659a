// Package event provides the normalized lifecycle event shared by every host.
package event

import (
	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=Kind -trimprefix=Kind -transform=kebab -json -text

// Kind is the closed set of lifecycle moments the router is invoked at.
type Kind int

const (
	// KindUnknown is the zero value and never produced by a successful decode.
	KindUnknown Kind = iota

	// KindSessionStart fires when an agent session begins or resumes.
	KindSessionStart

	// KindSessionEnd fires when the session is about to terminate.
	KindSessionEnd

	// KindBeforeTool fires before a tool call executes.
	KindBeforeTool

	// KindAfterTool fires after a tool call returned.
	KindAfterTool

	// KindUserInput fires when the user submits a prompt.
	KindUserInput

	// KindAgentResponseBefore fires before the agent asks the model for a response.
	KindAgentResponseBefore

	// KindAgentResponseAfter fires when the agent finished responding and wants to stop.
	KindAgentResponseAfter

	// KindNotification fires for host notifications.
	KindNotification
)

// ErrUnknownKind is returned when a kind name is not part of the closed set.
var ErrUnknownKind = errors.New("unknown event kind")

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindSessionStart,
		KindSessionEnd,
		KindBeforeTool,
		KindAfterTool,
		KindUserInput,
		KindAgentResponseBefore,
		KindAgentResponseAfter,
		KindNotification,
	}
}

// IsValid reports whether k is a member of the closed set.
func (k Kind) IsValid() bool {
	return k != KindUnknown && k.IsAKind()
}

// IsStopClass reports whether gates may request that the session not stop.
func (k Kind) IsStopClass() bool {
	return k == KindSessionEnd || k == KindAgentResponseAfter
}

// IsToolKind reports whether the event carries a tool call.
func (k Kind) IsToolKind() bool {
	return k == KindBeforeTool || k == KindAfterTool
}

// ParseKind parses a kind name. The zero value is not accepted.
func ParseKind(s string) (Kind, error) {
	k, err := KindString(s)
	if err != nil || k == KindUnknown {
		return KindUnknown, errors.Wrapf(ErrUnknownKind, "%q", s)
	}

	return k, nil
}

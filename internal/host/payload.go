package host

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// payload is the union of fields either host sends on stdin. Pointer fields
// distinguish absent keys from empty values.
type payload struct {
	HookEventName    string         `json:"hook_event_name"`
	SessionID        *string        `json:"session_id"`
	Cwd              string         `json:"cwd"`
	TranscriptPath   string         `json:"transcript_path"`
	ToolName         *string        `json:"tool_name"`
	ToolInput        map[string]any `json:"tool_input"`
	ToolResponse     any            `json:"tool_response"`
	Prompt           *string        `json:"prompt"`
	PromptResponse   string         `json:"prompt_response"`
	StopHookActive   bool           `json:"stop_hook_active"`
	Message          string         `json:"message"`
	NotificationType string         `json:"notification_type"`
	Source           string         `json:"source"`
	Reason           string         `json:"reason"`
	Timestamp        *string        `json:"timestamp"`
}

// Probe is the minimal view used for host detection.
type Probe struct {
	EventName    string
	HasTimestamp bool
}

func parsePayload(raw []byte) (*payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, &MalformedInputError{Cause: errors.New("empty input")}
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &MalformedInputError{Cause: err}
	}

	return &p, nil
}

// decodeWith builds an Event from a payload once the host and kind are known.
func decodeWith(raw []byte, host, nativeName string, kind event.Kind) (*event.Event, error) {
	p, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}

	if p.SessionID == nil || *p.SessionID == "" {
		return nil, &MalformedInputError{Field: "session_id"}
	}

	ev := &event.Event{
		Kind:                kind,
		Host:                host,
		HostEventName:       nativeName,
		SessionID:           *p.SessionID,
		Cwd:                 p.Cwd,
		TranscriptPath:      p.TranscriptPath,
		StopHookActive:      p.StopHookActive,
		NotificationMessage: p.Message,
		NotificationType:    p.NotificationType,
		AgentResponse:       p.PromptResponse,
		RawPayload:          json.RawMessage(bytes.TrimSpace(raw)),
	}

	switch kind {
	case event.KindBeforeTool, event.KindAfterTool:
		if p.ToolName == nil || *p.ToolName == "" {
			return nil, &MalformedInputError{Field: "tool_name"}
		}

		ev.ToolName = *p.ToolName
		ev.ToolInput = p.ToolInput

		if kind == event.KindAfterTool {
			ev.ToolOutput = p.ToolResponse
		}
	case event.KindUserInput:
		if p.Prompt == nil {
			return nil, &MalformedInputError{Field: "prompt"}
		}

		ev.UserPrompt = *p.Prompt
	case event.KindSessionStart:
		ev.Source = p.Source
	case event.KindSessionEnd:
		ev.Source = p.Reason
	case event.KindAgentResponseBefore, event.KindAgentResponseAfter:
		if p.Prompt != nil {
			ev.UserPrompt = *p.Prompt
		}
	case event.KindNotification, event.KindUnknown:
	}

	return ev, nil
}

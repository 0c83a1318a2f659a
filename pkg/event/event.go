package event

import (
	"encoding/json"
	"strings"
)

// pathKeys are tool_input keys that name a filesystem path, in lookup order.
var pathKeys = []string{"file_path", "path", "absolute_path", "notebook_path", "dir_path"}

// Event is one normalized lifecycle event. It is built once by a host adapter
// and read-only afterwards.
type Event struct {
	// Kind is the normalized lifecycle kind.
	Kind Kind `json:"kind"`

	// Host is the name of the adapter that decoded the event.
	Host string `json:"host"`

	// HostEventName is the native event name as sent by the host.
	HostEventName string `json:"host_event_name"`

	SessionID      string `json:"session_id"`
	Cwd            string `json:"cwd,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`

	ToolName   string         `json:"tool_name,omitempty"`
	ToolInput  map[string]any `json:"tool_input,omitempty"`
	ToolOutput any            `json:"tool_output,omitempty"`

	UserPrompt string `json:"user_prompt,omitempty"`

	// StopHookActive is set by the host when it is already continuing because
	// of an earlier stop block.
	StopHookActive bool `json:"stop_hook_active,omitempty"`

	// Source is the session start source or session end reason.
	Source string `json:"source,omitempty"`

	NotificationMessage string `json:"notification_message,omitempty"`
	NotificationType    string `json:"notification_type,omitempty"`

	// AgentResponse is the final response text, when the host reports it.
	AgentResponse string `json:"agent_response,omitempty"`

	// RawPayload is the exact stdin document.
	RawPayload json.RawMessage `json:"-"`
}

// InputString returns tool_input[key] when it is a string.
func (e *Event) InputString(key string) string {
	if e.ToolInput == nil {
		return ""
	}

	s, _ := e.ToolInput[key].(string)

	return s
}

// Path returns the first path-like tool_input value.
func (e *Event) Path() string {
	for _, key := range pathKeys {
		if p := e.InputString(key); p != "" {
			return p
		}
	}

	return ""
}

// Command returns the shell command of a shell tool call.
func (e *Event) Command() string {
	return e.InputString("command")
}

// IsShellTool reports whether the tool runs shell commands.
func (e *Event) IsShellTool() bool {
	switch strings.ToLower(e.ToolName) {
	case "bash", "run_shell_command", "shell":
		return true
	default:
		return false
	}
}

// AsMap renders the event as a plain map, the shape exposed to policy
// expressions and external gate commands.
func (e *Event) AsMap() map[string]any {
	toolInput := e.ToolInput
	if toolInput == nil {
		toolInput = map[string]any{}
	}

	return map[string]any{
		"kind":                 e.Kind.String(),
		"host":                 e.Host,
		"host_event_name":      e.HostEventName,
		"session_id":           e.SessionID,
		"cwd":                  e.Cwd,
		"transcript_path":      e.TranscriptPath,
		"tool_name":            e.ToolName,
		"tool_input":           toolInput,
		"tool_output":          e.ToolOutput,
		"user_prompt":          e.UserPrompt,
		"stop_hook_active":     e.StopHookActive,
		"source":               e.Source,
		"notification_message": e.NotificationMessage,
		"notification_type":    e.NotificationType,
		"agent_response":       e.AgentResponse,
		"path":                 e.Path(),
		"command":              e.Command(),
	}
}

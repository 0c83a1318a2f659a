// Package gates implements the built-in gate types and builds them from
// configuration.
package gates

import (
	"strings"

	"github.com/smykla-skalski/hookrouter/internal/session"
)

// Metadata keys set by built-in gates.
const (
	MetadataProtectedPath = "protected_path"
	MetadataPattern       = "pattern"
	MetadataRule          = "rule"
	MetadataActiveTask    = "active_task"
	MetadataExitCode      = "exit_code"
)

// expand replaces {key} placeholders in a message template.
func expand(template string, values map[string]string) string {
	if template == "" || len(values) == 0 {
		return template
	}

	pairs := make([]string, 0, len(values)*2) //nolint:mnd // key + value
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// sessionMap renders the session identifiers for policy expressions and
// external commands.
func sessionMap(state session.State) map[string]any {
	if state == nil {
		return map[string]any{"id": "", "cwd": "", "transcript_path": ""}
	}

	return map[string]any{
		"id":              state.SessionID(),
		"cwd":             state.Cwd(),
		"transcript_path": state.TranscriptPath(),
	}
}

// taskMap renders a task for policy expressions.
func taskMap(t *session.Task) map[string]any {
	return map[string]any{
		"id":              t.ID,
		"title":           t.Title,
		"status":          t.Status,
		"checklist_total": int64(t.ChecklistTotal),
		"checklist_done":  int64(t.ChecklistDone),
		"open_items":      int64(t.OpenItems()),
	}
}

// Package crashdump records panics of the router as JSON dumps so a failed
// hook invocation can be inspected after the host has moved on.
package crashdump

import "time"

// CrashInfo is a single crash dump.
type CrashInfo struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	PanicValue string         `json:"panic_value"`
	StackTrace string         `json:"stack_trace"`
	Runtime    RuntimeInfo    `json:"runtime"`
	Event      *EventInfo     `json:"event,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
	Metadata   DumpMetadata   `json:"metadata"`
}

// RuntimeInfo describes the process at crash time.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
}

// EventInfo is the part of the hook event that was being dispatched.
type EventInfo struct {
	Host          string `json:"host"`
	Kind          string `json:"kind"`
	HostEventName string `json:"host_event_name,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
	ToolName      string `json:"tool_name,omitempty"`
	Path          string `json:"path,omitempty"`
	Command       string `json:"command,omitempty"`
}

// DumpMetadata holds environment details.
type DumpMetadata struct {
	Version    string `json:"version"`
	User       string `json:"user,omitempty"`
	Hostname   string `json:"hostname,omitempty"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// DumpSummary is the listing form of a dump.
type DumpSummary struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind,omitempty"`
	PanicValue string    `json:"panic_value"`
	FilePath   string    `json:"file_path"`
	Size       int64     `json:"size"`
}

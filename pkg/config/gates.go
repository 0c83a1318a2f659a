package config

import (
	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
)

// Built-in gate types.
const (
	GateTypeProtectedPaths = "protected-paths"
	GateTypeCEL            = "cel"
	GateTypeCommand        = "command"
	GateTypeActiveTask     = "active-task"
	GateTypeTaskClosure    = "task-closure"
	GateTypeContext        = "context"
)

// GateTypes returns the built-in gate types.
func GateTypes() []string {
	return []string{
		GateTypeProtectedPaths,
		GateTypeCEL,
		GateTypeCommand,
		GateTypeActiveTask,
		GateTypeTaskClosure,
		GateTypeContext,
	}
}

// GateConfig describes one configured gate instance.
type GateConfig struct {
	// Name identifies the gate in activations and logs.
	Name string `json:"name" koanf:"name" toml:"name"`

	// Type selects the gate implementation.
	Type string `json:"type" jsonschema:"enum=protected-paths,enum=cel,enum=command,enum=active-task,enum=task-closure,enum=context" koanf:"type" toml:"type"`

	// Description is shown by `hookrouter gates`.
	Description string `json:"description,omitempty" koanf:"description" toml:"description,omitempty"`

	// Mode is "sync" (default) or "async".
	Mode string `json:"mode,omitempty" jsonschema:"enum=sync,enum=async" koanf:"mode" toml:"mode,omitempty"`

	// Timeout overrides dispatch.timeout for this gate.
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`

	// Enabled controls registration. Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Tools restricts the gate to these tool names (case-insensitive).
	Tools []string `json:"tools,omitempty" koanf:"tools" toml:"tools,omitempty"`

	// ToolPattern restricts the gate to tool names matching this regular expression.
	ToolPattern string `json:"tool_pattern,omitempty" koanf:"tool_pattern" toml:"tool_pattern,omitempty"`

	// Paths restricts the gate to events whose path matches one of these globs.
	Paths []string `json:"paths,omitempty" koanf:"paths" toml:"paths,omitempty"`

	// ExcludeTools skips events for these tool names (case-insensitive).
	ExcludeTools []string `json:"exclude_tools,omitempty" koanf:"exclude_tools" toml:"exclude_tools,omitempty"`

	// ExcludePaths skips events whose path matches one of these globs.
	ExcludePaths []string `json:"exclude_paths,omitempty" koanf:"exclude_paths" toml:"exclude_paths,omitempty"`

	// Options holds type-specific settings.
	Options map[string]any `json:"options,omitempty" koanf:"options" toml:"options,omitempty"`
}

// IsEnabled returns whether the gate should be registered.
func (g *GateConfig) IsEnabled() bool {
	if g == nil || g.Enabled == nil {
		return true
	}

	return *g.Enabled
}

// DecodeOptions decodes Options into a type-specific struct. Unknown keys
// are rejected.
func (g *GateConfig) DecodeOptions(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       DecodeHook(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "koanf",
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "creating options decoder")
	}

	if err := decoder.Decode(g.Options); err != nil {
		return errors.Wrapf(err, "gate %q options", g.Name)
	}

	return nil
}

// DecodeHook converts config strings into Duration and other text types.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// ProtectedPathsOptions configures a protected-paths gate.
type ProtectedPathsOptions struct {
	// Patterns are doublestar globs. "~/" is expanded.
	Patterns []string `json:"patterns" koanf:"patterns"`

	// Decision for a matching path. Default: "deny"
	Decision string `json:"decision,omitempty" jsonschema:"enum=deny,enum=ask,enum=warn" koanf:"decision"`

	// Message overrides the user message. "{path}" and "{pattern}" are
	// replaced by the matched path and glob.
	Message string `json:"message,omitempty" koanf:"message"`

	// Shell enables path extraction from shell commands. Default: true
	Shell *bool `json:"shell,omitempty" koanf:"shell"`
}

// CELOptions configures a cel gate.
type CELOptions struct {
	// Rules are evaluated in order; the first matching rule decides.
	Rules []CELRule `json:"rules" koanf:"rules"`
}

// CELRule is one expression with its outcome.
type CELRule struct {
	Name string `json:"name,omitempty" koanf:"name"`

	// Expr is a CEL boolean expression over `event` and `session`.
	Expr string `json:"expr" koanf:"expr"`

	Decision string `json:"decision" jsonschema:"enum=allow,enum=warn,enum=ask,enum=deny" koanf:"decision"`
	Message  string `json:"message,omitempty" koanf:"message"`
	Context  string `json:"context,omitempty" koanf:"context"`

	// StopReason blocks a stop-class event with this reason.
	StopReason string `json:"stop_reason,omitempty" koanf:"stop_reason"`
}

// CommandOptions configures a command gate.
type CommandOptions struct {
	// Command is the program to run.
	Command string `json:"command" koanf:"command"`

	Args []string          `json:"args,omitempty" koanf:"args"`
	Env  map[string]string `json:"env,omitempty" koanf:"env"`

	// Dir is the working directory. Default: the event cwd.
	Dir string `json:"dir,omitempty" koanf:"dir"`
}

// ActiveTaskOptions configures an active-task gate.
type ActiveTaskOptions struct {
	// Missing is the decision when the session has no active task. Default: "warn"
	Missing string `json:"missing,omitempty" jsonschema:"enum=allow,enum=warn,enum=ask,enum=deny" koanf:"missing"`

	// Message is shown when the session has no active task.
	Message string `json:"message,omitempty" koanf:"message"`
}

// TaskClosureOptions configures a task-closure gate.
type TaskClosureOptions struct {
	// Reason is sent to the agent when the stop is blocked. "{task}",
	// "{title}" and "{open}" expand to the task ID, its title and the number
	// of open checklist items.
	Reason string `json:"reason,omitempty" koanf:"reason"`

	// UserReason is shown to the user when the stop is blocked. Accepts the
	// same placeholders as Reason.
	UserReason string `json:"user_reason,omitempty" koanf:"user_reason"`
}

// ContextOptions configures a context gate.
type ContextOptions struct {
	// Text is injected verbatim.
	Text string `json:"text,omitempty" koanf:"text"`

	// File is read on every event, relative to the event cwd.
	File string `json:"file,omitempty" koanf:"file"`

	// MaxBytes caps the file content. Default: 16384
	MaxBytes ByteSize `json:"max_bytes,omitempty" koanf:"max_bytes"`
}

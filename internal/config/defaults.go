package config

import (
	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// defaultProtectedPatterns are the system locations no agent should write to.
var defaultProtectedPatterns = []string{
	"/etc/**",
	"/usr/**",
	"/bin/**",
	"/sbin/**",
	"/boot/**",
	"/System/**",
	"~/.ssh/**",
	"~/.gnupg/**",
	"~/.aws/credentials",
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *config.Config {
	maxConcurrency := config.DefaultMaxConcurrency

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Dispatch: &config.DispatchConfig{
			Timeout:        config.Duration(config.DefaultGateTimeout),
			MaxConcurrency: &maxConcurrency,
		},
		Gates: DefaultGates(),
		Activation: map[string][]string{
			event.KindBeforeTool.String(): {config.DefaultProtectedGate},
		},
		TaskStore: &config.TaskStoreConfig{
			Timeout: config.Duration(config.DefaultTaskStoreTimeout),
		},
	}
}

// DefaultGates returns the built-in gate instances. Config files can
// override or disable them by name.
func DefaultGates() []config.GateConfig {
	patterns := make([]any, 0, len(defaultProtectedPatterns))
	for _, p := range defaultProtectedPatterns {
		patterns = append(patterns, p)
	}

	return []config.GateConfig{
		{
			Name:        config.DefaultProtectedGate,
			Type:        config.GateTypeProtectedPaths,
			Description: "Deny file writes and shell commands touching system paths",
			Options: map[string]any{
				"patterns": patterns,
			},
		},
	}
}

// defaultsToMap converts the default scalar settings to a koanf map. Gates
// are merged separately by name.
func defaultsToMap(paths xdg.PathResolver) map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"dispatch": map[string]any{
			"timeout":         config.Duration(config.DefaultGateTimeout).String(),
			"max_concurrency": config.DefaultMaxConcurrency,
			"sequential":      false,
		},
		"activation": map[string]any{
			event.KindBeforeTool.String(): []any{config.DefaultProtectedGate},
		},
		"task_store": map[string]any{
			"enabled": true,
			"path":    paths.TaskStoreFile(),
			"timeout": config.Duration(config.DefaultTaskStoreTimeout).String(),
		},
		"crash_dump": map[string]any{
			"enabled":   true,
			"dir":       paths.CrashDumpDir(),
			"max_dumps": config.DefaultMaxDumps,
			"max_age":   config.Duration(config.DefaultMaxDumpAge).String(),
		},
		"log": map[string]any{
			"file":  paths.LogFile(),
			"debug": true,
			"trace": false,
		},
	}
}

// Package config provides configuration schema types for hookrouter.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for hookrouter.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Dispatch controls gate execution.
	Dispatch *DispatchConfig `json:"dispatch,omitempty" koanf:"dispatch" toml:"dispatch,omitempty"`

	// Gates lists gate instances. Global and project gates merge by name.
	Gates []GateConfig `json:"gates,omitempty" koanf:"gates" toml:"gates,omitempty"`

	// Activation maps event kinds to ordered gate names.
	Activation map[string][]string `json:"activation,omitempty" koanf:"activation" toml:"activation,omitempty"`

	// Hosts holds per-host overrides, keyed by host name.
	Hosts map[string]*HostConfig `json:"hosts,omitempty" koanf:"hosts" toml:"hosts,omitempty"`

	// TaskStore configures the external task store reader.
	TaskStore *TaskStoreConfig `json:"task_store,omitempty" koanf:"task_store" toml:"task_store,omitempty"`

	// Log configures the log file.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`

	// CrashDump configures panic dumps.
	CrashDump *CrashDumpConfig `json:"crash_dump,omitempty" koanf:"crash_dump" toml:"crash_dump,omitempty"`
}

// DispatchConfig controls how gates are executed.
type DispatchConfig struct {
	// Timeout bounds each gate unless the gate sets its own.
	// Default: "3s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`

	// MaxConcurrency limits the async batch width. Zero or less runs the whole batch at once.
	// Default: 4
	MaxConcurrency *int `json:"max_concurrency,omitempty" koanf:"max_concurrency" toml:"max_concurrency,omitempty"`

	// Sequential runs async gates inline, in activation order.
	// Default: false
	Sequential *bool `json:"sequential,omitempty" koanf:"sequential" toml:"sequential,omitempty"`
}

// IsSequential returns whether async gates run inline.
func (d *DispatchConfig) IsSequential() bool {
	if d == nil || d.Sequential == nil {
		return false
	}

	return *d.Sequential
}

// GetMaxConcurrency returns the async batch width.
func (d *DispatchConfig) GetMaxConcurrency() int {
	if d == nil || d.MaxConcurrency == nil {
		return DefaultMaxConcurrency
	}

	return *d.MaxConcurrency
}

// HostConfig holds overrides for one host.
type HostConfig struct {
	// ExitCodes overrides exit routes, keyed by event kind.
	ExitCodes map[string]*ExitCodesConfig `json:"exit_codes,omitempty" koanf:"exit_codes" toml:"exit_codes,omitempty"`
}

// ExitCodesConfig overrides the exit code of individual routes.
// Omitted routes keep the host default.
type ExitCodesConfig struct {
	Allow *int `json:"allow,omitempty" jsonschema:"enum=0" koanf:"allow" toml:"allow,omitempty"`
	Warn  *int `json:"warn,omitempty" jsonschema:"enum=0,enum=1" koanf:"warn" toml:"warn,omitempty"`
	Ask   *int `json:"ask,omitempty" jsonschema:"enum=0,enum=1" koanf:"ask" toml:"ask,omitempty"`
	Block *int `json:"block,omitempty" jsonschema:"enum=0,enum=2" koanf:"block" toml:"block,omitempty"`
	Deny  *int `json:"deny,omitempty" jsonschema:"enum=2" koanf:"deny" toml:"deny,omitempty"`
}

// TaskStoreConfig configures the read-only task store.
type TaskStoreConfig struct {
	// Enabled controls whether gates can look up the active task.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Path is the SQLite database written by the task tracker. "~" is expanded.
	// Default: "$XDG_DATA_HOME/hookrouter/tasks.db"
	Path string `json:"path,omitempty" koanf:"path" toml:"path,omitempty"`

	// Timeout bounds a single lookup.
	// Default: "500ms"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`
}

// IsEnabled returns whether the task store is consulted.
func (t *TaskStoreConfig) IsEnabled() bool {
	if t == nil || t.Enabled == nil {
		return true
	}

	return *t.Enabled
}

// LogConfig configures logging.
type LogConfig struct {
	// File is the log file path. "~" is expanded.
	// Default: "$XDG_STATE_HOME/hookrouter/router.log"
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`

	// Debug enables info level logging.
	// Default: true
	Debug *bool `json:"debug,omitempty" koanf:"debug" toml:"debug,omitempty"`

	// Trace enables debug level logging.
	// Default: false
	Trace *bool `json:"trace,omitempty" koanf:"trace" toml:"trace,omitempty"`
}

// IsDebug returns whether info level logging is enabled.
func (l *LogConfig) IsDebug() bool {
	if l == nil || l.Debug == nil {
		return true
	}

	return *l.Debug
}

// IsTrace returns whether debug level logging is enabled.
func (l *LogConfig) IsTrace() bool {
	if l == nil || l.Trace == nil {
		return false
	}

	return *l.Trace
}

// GetDispatch returns the dispatch config, creating it if it doesn't exist.
func (c *Config) GetDispatch() *DispatchConfig {
	if c.Dispatch == nil {
		c.Dispatch = &DispatchConfig{}
	}

	return c.Dispatch
}

// GetTaskStore returns the task store config, creating it if it doesn't exist.
func (c *Config) GetTaskStore() *TaskStoreConfig {
	if c.TaskStore == nil {
		c.TaskStore = &TaskStoreConfig{}
	}

	return c.TaskStore
}

// GetLog returns the log config, creating it if it doesn't exist.
func (c *Config) GetLog() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	return c.Log
}

// GetCrashDump returns the crash dump config, creating it if it doesn't exist.
func (c *Config) GetCrashDump() *CrashDumpConfig {
	if c.CrashDump == nil {
		c.CrashDump = &CrashDumpConfig{}
	}

	return c.CrashDump
}

// Gate returns the gate with the given name.
func (c *Config) Gate(name string) (*GateConfig, bool) {
	for i := range c.Gates {
		if c.Gates[i].Name == name {
			return &c.Gates[i], true
		}
	}

	return nil, false
}

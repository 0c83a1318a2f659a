package config

import "time"

const (
	// DefaultMaxDumps is the default maximum number of crash dumps to keep.
	DefaultMaxDumps = 10

	// DefaultMaxDumpAge is the default maximum age of crash dumps.
	DefaultMaxDumpAge = 30 * 24 * time.Hour
)

// CrashDumpConfig configures the dumps written when the router panics.
//
//	[crash_dump]
//	enabled = true
//	dir = "~/.local/state/hookrouter/crashes"
//	max_dumps = 10
//	max_age = "720h"
type CrashDumpConfig struct {
	// Enabled controls whether panics are recorded.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Dir is the dump directory. "~" is expanded.
	// Default: "$XDG_STATE_HOME/hookrouter/crashes"
	Dir string `json:"dir,omitempty" koanf:"dir" toml:"dir,omitempty"`

	// MaxDumps caps how many dumps are kept.
	// Default: 10
	MaxDumps *int `json:"max_dumps,omitempty" koanf:"max_dumps" toml:"max_dumps,omitempty"`

	// MaxAge removes older dumps.
	// Default: "720h"
	MaxAge Duration `json:"max_age,omitempty" koanf:"max_age" toml:"max_age,omitempty"`
}

// IsEnabled returns whether crash dumps are written.
func (c *CrashDumpConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// GetMaxDumps returns the dump count cap.
func (c *CrashDumpConfig) GetMaxDumps() int {
	if c == nil || c.MaxDumps == nil {
		return DefaultMaxDumps
	}

	return *c.MaxDumps
}

// GetMaxAge returns the dump age cap.
func (c *CrashDumpConfig) GetMaxAge() time.Duration {
	if c == nil || c.MaxAge <= 0 {
		return DefaultMaxDumpAge
	}

	return c.MaxAge.ToDuration()
}

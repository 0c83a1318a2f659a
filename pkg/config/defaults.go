package config

import "time"

// Default values shared by the loader and the gates.
const (
	DefaultGateTimeout      = 3 * time.Second
	DefaultMaxConcurrency   = 4
	DefaultTaskStoreTimeout = 500 * time.Millisecond
	DefaultContextMaxBytes  = 16 * KB

	// DefaultProtectedGate is the gate registered when no config exists.
	DefaultProtectedGate = "protect-system"
)

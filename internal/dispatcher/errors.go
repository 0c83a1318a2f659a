package dispatcher

import (
	"fmt"
	"time"
)

// GateExecutionError reports a gate that returned an error or panicked.
type GateExecutionError struct {
	Gate     string
	Cause    error
	Panicked bool
}

// Error implements the error interface.
func (e *GateExecutionError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("gate %q panicked: %v", e.Gate, e.Cause)
	}

	return fmt.Sprintf("gate %q failed: %v", e.Gate, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *GateExecutionError) Unwrap() error {
	return e.Cause
}

// GateTimeoutError reports a gate that did not finish within its bound.
type GateTimeoutError struct {
	Gate    string
	Timeout time.Duration
}

// Error implements the error interface.
func (e *GateTimeoutError) Error() string {
	return fmt.Sprintf("gate %q timed out after %s", e.Gate, e.Timeout)
}

package host

import "fmt"

// MalformedInputError reports a stdin payload that cannot be decoded or lacks
// a required field.
type MalformedInputError struct {
	// Field names the missing or invalid field. Empty when the document
	// itself is not valid JSON.
	Field string
	Cause error
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	switch {
	case e.Field == "" && e.Cause != nil:
		return fmt.Sprintf("malformed hook input: %v", e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("malformed hook input: field %q: %v", e.Field, e.Cause)
	default:
		return fmt.Sprintf("malformed hook input: missing required field %q", e.Field)
	}
}

// Unwrap returns the underlying cause.
func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// UnknownHostError reports a payload no adapter recognises.
type UnknownHostError struct {
	EventName string

	// Host is set when a host was forced but does not exist or does not
	// recognise the event.
	Host string
}

// Error implements the error interface.
func (e *UnknownHostError) Error() string {
	switch {
	case e.Host != "" && e.EventName != "":
		return fmt.Sprintf("host %q does not recognise event %q", e.Host, e.EventName)
	case e.Host != "":
		return fmt.Sprintf("unknown host %q", e.Host)
	default:
		return fmt.Sprintf("no host recognises event %q", e.EventName)
	}
}

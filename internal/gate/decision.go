package gate

import (
	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=Decision -trimprefix=Decision -transform=kebab -json -text
//go:generate enumer -type=RunMode -trimprefix=RunMode -transform=kebab -json -text

// Decision is the verdict of a single gate.
type Decision int

const (
	// DecisionAllow lets the action proceed silently.
	DecisionAllow Decision = iota

	// DecisionWarn lets the action proceed and surfaces a message.
	DecisionWarn

	// DecisionAsk requests user confirmation.
	DecisionAsk

	// DecisionDeny blocks the action.
	DecisionDeny
)

// ErrUnknownDecision is returned for decision names outside allow/warn/ask/deny.
var ErrUnknownDecision = errors.New("unknown decision")

// ParseDecision parses a case-insensitive decision name.
func ParseDecision(s string) (Decision, error) {
	d, err := DecisionString(s)
	if err != nil {
		return DecisionAllow, errors.Wrapf(ErrUnknownDecision, "%q", s)
	}

	return d, nil
}

// RunMode selects whether a gate runs inline or in the concurrent batch.
type RunMode int

const (
	// RunModeSync runs the gate strictly in order.
	RunModeSync RunMode = iota

	// RunModeAsync runs the gate concurrently with adjacent async gates.
	RunModeAsync
)

// ErrUnknownRunMode is returned for mode names other than sync/async.
var ErrUnknownRunMode = errors.New("unknown run mode")

// ParseRunMode parses "sync" or "async". An empty string means sync.
func ParseRunMode(s string) (RunMode, error) {
	if s == "" {
		return RunModeSync, nil
	}

	m, err := RunModeString(s)
	if err != nil {
		return RunModeSync, errors.Wrapf(ErrUnknownRunMode, "%q", s)
	}

	return m, nil
}

package host

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Set is the ordered collection of known hosts.
type Set struct {
	adapters []Adapter
}

// NewSet creates a set. Order matters only for listing.
func NewSet(adapters ...Adapter) *Set {
	return &Set{adapters: adapters}
}

// Defaults builds the Claude Code and Gemini CLI adapters with per-host
// exit code overrides keyed by host name.
func Defaults(overrides map[string]map[event.Kind]ContractOverride) (*Set, error) {
	claude, errClaude := NewClaude(WithContractOverrides(overrides[ClaudeName]))
	gemini, errGemini := NewGemini(WithContractOverrides(overrides[GeminiName]))

	if err := errors.CombineErrors(errClaude, errGemini); err != nil {
		return nil, err
	}

	for name := range overrides {
		if name != ClaudeName && name != GeminiName {
			return nil, &UnknownHostError{Host: name}
		}
	}

	return NewSet(claude, gemini), nil
}

// Adapters returns the adapters in order.
func (s *Set) Adapters() []Adapter {
	return s.adapters
}

// Get returns an adapter by name.
func (s *Set) Get(name string) (Adapter, bool) {
	for _, a := range s.adapters {
		if a.Name() == name {
			return a, true
		}
	}

	return nil, false
}

// Detect selects the adapter for a payload. A forced host wins; otherwise the
// native event name (or nativeEvent override) selects the only host that
// recognises it, and payload shape breaks ties.
func (s *Set) Detect(raw []byte, forcedHost, nativeEvent string) (Adapter, error) {
	probe, err := probePayload(raw)
	if err != nil {
		return nil, err
	}

	if nativeEvent != "" {
		probe.EventName = nativeEvent
	}

	if probe.EventName == "" {
		return nil, &MalformedInputError{Field: "hook_event_name"}
	}

	if forcedHost != "" {
		a, ok := s.Get(forcedHost)
		if !ok {
			return nil, &UnknownHostError{Host: forcedHost}
		}

		if !a.Recognizes(probe.EventName) {
			return nil, &UnknownHostError{Host: forcedHost, EventName: probe.EventName}
		}

		return a, nil
	}

	var candidates []Adapter

	for _, a := range s.adapters {
		if a.Recognizes(probe.EventName) {
			candidates = append(candidates, a)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, &UnknownHostError{EventName: probe.EventName}
	case 1:
		return candidates[0], nil
	}

	for _, a := range candidates {
		if a.Claims(probe) {
			return a, nil
		}
	}

	return candidates[0], nil
}

// Decode detects the host and decodes the payload in one step.
func (s *Set) Decode(raw []byte, forcedHost, nativeEvent string) (Adapter, *event.Event, error) {
	a, err := s.Detect(raw, forcedHost, nativeEvent)
	if err != nil {
		return nil, nil, err
	}

	ev, err := a.Decode(raw, nativeEvent)
	if err != nil {
		return a, nil, err
	}

	return a, ev, nil
}

func probePayload(raw []byte) (Probe, error) {
	if _, err := parsePayload(raw); err != nil {
		return Probe{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Probe{}, &MalformedInputError{Cause: err}
	}

	var probe Probe

	if name, ok := fields["hook_event_name"]; ok {
		if err := json.Unmarshal(name, &probe.EventName); err != nil {
			return Probe{}, &MalformedInputError{Field: "hook_event_name", Cause: err}
		}
	}

	_, probe.HasTimestamp = fields["timestamp"]

	return probe, nil
}

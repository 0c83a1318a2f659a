// Package host adapts the router to the agent runtimes that invoke it.
//
// Each adapter knows its native event names, its stdin payload, its stdout
// JSON layout and its exit code table. Adding a host means adding an adapter;
// the dispatcher and merge logic never see host details.
package host

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/decision"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Rendering is what an adapter needs to build its stdout document.
type Rendering struct {
	Event     *event.Event
	Aggregate *decision.Aggregate

	// Outcome is the effective outcome after degradation.
	Outcome decision.Outcome

	// UserMessage is the aggregate user message with degradation notes appended.
	UserMessage string
}

// Adapter is one host runtime.
type Adapter interface {
	// Name returns the host identifier used in flags and configuration.
	Name() string

	// Recognizes reports whether nativeEvent is part of the host vocabulary.
	Recognizes(nativeEvent string) bool

	// Claims reports whether the payload shape belongs to this host. Used to
	// break ties when several hosts share an event name.
	Claims(probe Probe) bool

	// Decode builds the normalized event. nativeEvent overrides the payload's
	// hook_event_name when non-empty.
	Decode(raw []byte, nativeEvent string) (*event.Event, error)

	// Kinds returns the kinds this host can emit, in canonical order.
	Kinds() []event.Kind

	// NativeNames returns every native event name that decodes to kind.
	NativeNames(kind event.Kind) []string

	// Contract returns the exit code table for a kind.
	Contract(kind event.Kind) (ExitContract, bool)

	// SupportsContext reports whether the host accepts agent context for kind
	// outside of a block reason.
	SupportsContext(kind event.Kind) bool

	// Document builds the stdout JSON document for an exit 0 route. A nil
	// document means stdout stays empty.
	Document(r Rendering) (any, error)
}

// ErrUnsupportedKind is returned when a host has no native event for a kind.
var ErrUnsupportedKind = errors.New("kind not supported by host")

// base holds the declarative tables shared by the built-in adapters.
type base struct {
	name      string
	natives   map[string]event.Kind
	primary   map[event.Kind]string
	contracts map[event.Kind]ExitContract
}

func newBase(name string, natives map[string]event.Kind, primary map[event.Kind]string) base {
	return base{
		name:      name,
		natives:   natives,
		primary:   primary,
		contracts: make(map[event.Kind]ExitContract, len(primary)),
	}
}

// Name returns the host identifier.
func (b *base) Name() string { return b.name }

// Recognizes reports whether the native event name belongs to the host.
func (b *base) Recognizes(nativeEvent string) bool {
	_, ok := b.natives[nativeEvent]

	return ok
}

// Kinds returns the supported kinds in canonical order.
func (b *base) Kinds() []event.Kind {
	var out []event.Kind

	for _, k := range event.Kinds() {
		if _, ok := b.primary[k]; ok {
			out = append(out, k)
		}
	}

	return out
}

// NativeNames returns the native event names mapped to kind, sorted.
func (b *base) NativeNames(kind event.Kind) []string {
	var out []string

	for name, k := range b.natives {
		if k == kind {
			out = append(out, name)
		}
	}

	slices.Sort(out)

	return out
}

// Contract returns the exit contract for a kind.
func (b *base) Contract(kind event.Kind) (ExitContract, bool) {
	c, ok := b.contracts[kind]

	return c, ok
}

func (b *base) decode(raw []byte, nativeEvent string) (*event.Event, error) {
	name := nativeEvent

	if name == "" {
		p, err := parsePayload(raw)
		if err != nil {
			return nil, err
		}

		name = p.HookEventName
	}

	if name == "" {
		return nil, &MalformedInputError{Field: "hook_event_name"}
	}

	kind, ok := b.natives[name]
	if !ok {
		return nil, &UnknownHostError{EventName: name, Host: b.name}
	}

	return decodeWith(raw, b.name, name, kind)
}

// applyOverrides validates and installs per-kind exit code overrides.
func (b *base) applyOverrides(overrides map[event.Kind]ContractOverride) error {
	var errs error

	for kind, o := range overrides {
		c, ok := b.contracts[kind]
		if !ok {
			errs = errors.CombineErrors(errs, errors.Wrapf(ErrUnsupportedKind, "%s %s", b.name, kind))

			continue
		}

		updated, err := o.Apply(c)
		if err != nil {
			errs = errors.CombineErrors(errs, err)

			continue
		}

		b.contracts[kind] = updated
	}

	return errs
}

func (b *base) setContract(kind event.Kind, c ExitContract) {
	c.Host = b.name
	c.Kind = kind
	c.NativeName = b.primary[kind]
	b.contracts[kind] = c
}

// Option configures a built-in adapter.
type Option func(*options)

type options struct {
	overrides map[event.Kind]ContractOverride
}

// WithContractOverrides replaces exit codes for selected kinds.
func WithContractOverrides(overrides map[event.Kind]ContractOverride) Option {
	return func(o *options) {
		o.overrides = overrides
	}
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// joinContext appends agent context to a reason for kinds whose only
// agent-facing channel is the block reason.
func joinContext(reason, context string) string {
	switch {
	case context == "":
		return reason
	case reason == "":
		return context
	default:
		return reason + decision.ContextSeparator + context
	}
}

// joinMessages appends a second user-facing message on its own line.
func joinMessages(first, second string) string {
	switch {
	case second == "":
		return first
	case first == "":
		return second
	default:
		return first + "\n" + second
	}
}

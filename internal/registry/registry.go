// Package registry maps gate names to implementations and event kinds to
// ordered gate activations.
//
// A gate runs for a kind only when it is both registered and activated for
// that kind. Anything present in only one table is reported by ListOrphaned.
package registry

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

var (
	// ErrDuplicateGate is returned when a name is registered twice.
	ErrDuplicateGate = errors.New("gate already registered")

	// ErrEmptyName is returned when registering a gate without a name.
	ErrEmptyName = errors.New("gate name is empty")

	// ErrNilGate is returned when registering a nil implementation.
	ErrNilGate = errors.New("gate implementation is nil")

	// ErrSealed is returned when mutating a sealed registry.
	ErrSealed = errors.New("registry is sealed")

	// ErrDuplicateActivation is returned when a kind lists the same gate twice.
	ErrDuplicateActivation = errors.New("gate activated twice for the same kind")
)

// Registration is one named gate implementation.
type Registration struct {
	Name    string
	Gate    gate.Gate
	Mode    gate.RunMode
	Timeout time.Duration

	// Predicate narrows which events of an activated kind the gate sees.
	// Nil matches every event.
	Predicate Predicate
}

// Matches reports whether the registration applies to ev.
func (r Registration) Matches(ev *event.Event) bool {
	return r.Predicate == nil || r.Predicate(ev)
}

// Registry holds the implementation table and the activation map.
// Mutations are rejected after Seal.
type Registry struct {
	mu          sync.RWMutex
	gates       map[string]Registration
	order       []string
	activations map[event.Kind][]string
	sealed      bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		gates:       make(map[string]Registration),
		activations: make(map[event.Kind][]string),
	}
}

// Register adds a gate implementation.
func (r *Registry) Register(reg Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.sealed:
		return errors.Wrapf(ErrSealed, "registering %q", reg.Name)
	case reg.Name == "":
		return ErrEmptyName
	case reg.Gate == nil:
		return errors.Wrapf(ErrNilGate, "%q", reg.Name)
	}

	if _, exists := r.gates[reg.Name]; exists {
		return errors.Wrapf(ErrDuplicateGate, "%q", reg.Name)
	}

	r.gates[reg.Name] = reg
	r.order = append(r.order, reg.Name)

	return nil
}

// Activate sets the ordered gate names for a kind, replacing any previous list.
// Names need not be registered; unregistered names surface as orphans.
func (r *Registry) Activate(kind event.Kind, names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.Wrapf(ErrSealed, "activating %s", kind)
	}

	if !kind.IsValid() {
		return errors.Wrapf(event.ErrUnknownKind, "activating %d", int(kind))
	}

	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			return errors.Wrapf(ErrDuplicateActivation, "%q for %s", name, kind)
		}

		seen[name] = struct{}{}
	}

	r.activations[kind] = slices.Clone(names)

	return nil
}

// Seal freezes the registry.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
}

// Resolve returns the registrations that are both implemented and activated
// for kind, in activation order.
func (r *Registry) Resolve(kind event.Kind) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.activations[kind]
	out := make([]Registration, 0, len(names))

	for _, name := range names {
		if reg, ok := r.gates[name]; ok {
			out = append(out, reg)
		}
	}

	return out
}

// Get returns a registration by name.
func (r *Registry) Get(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.gates[name]

	return reg, ok
}

// Registrations returns all registrations in registration order.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.gates[name])
	}

	return out
}

// Activations returns a copy of the activation map.
func (r *Registry) Activations() map[event.Kind][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[event.Kind][]string, len(r.activations))
	for kind, names := range r.activations {
		out[kind] = slices.Clone(names)
	}

	return out
}

// Count returns the number of registered gates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.gates)
}

// OrphanReason explains why a gate is excluded from execution.
type OrphanReason int

const (
	// OrphanNotActivated means the gate is registered but no kind activates it.
	OrphanNotActivated OrphanReason = iota

	// OrphanNotRegistered means a kind activates a name with no implementation.
	OrphanNotRegistered
)

func (o OrphanReason) String() string {
	if o == OrphanNotRegistered {
		return "activated but not registered"
	}

	return "registered but not activated"
}

// Orphan is a gate present in only one of the two tables.
type Orphan struct {
	Name   string
	Reason OrphanReason

	// Kinds lists the kinds activating an unregistered name.
	Kinds []event.Kind
}

// ListOrphaned reports gates that are registered but never activated and
// names activated for some kind but never registered. Results are sorted by
// name then reason.
func (r *Registry) ListOrphaned() []Orphan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activatedBy := make(map[string][]event.Kind)

	for _, kind := range event.Kinds() {
		for _, name := range r.activations[kind] {
			activatedBy[name] = append(activatedBy[name], kind)
		}
	}

	var orphans []Orphan

	for _, name := range slices.Sorted(maps.Keys(r.gates)) {
		if _, ok := activatedBy[name]; !ok {
			orphans = append(orphans, Orphan{Name: name, Reason: OrphanNotActivated})
		}
	}

	for _, name := range slices.Sorted(maps.Keys(activatedBy)) {
		if _, ok := r.gates[name]; !ok {
			orphans = append(orphans, Orphan{
				Name:   name,
				Reason: OrphanNotRegistered,
				Kinds:  activatedBy[name],
			})
		}
	}

	slices.SortStableFunc(orphans, func(a, b Orphan) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.Reason, b.Reason))
	})

	return orphans
}

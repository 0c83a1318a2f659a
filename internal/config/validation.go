package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidGate is returned when a gate entry is malformed.
	ErrInvalidGate = errors.New("invalid gate")

	// ErrInvalidActivation is returned when an activation entry is malformed.
	ErrInvalidActivation = errors.New("invalid activation")

	// ErrInvalidDispatch is returned when dispatch settings are out of range.
	ErrInvalidDispatch = errors.New("invalid dispatch settings")

	// ErrUnsupportedVersion is returned for config versions newer than this build.
	ErrUnsupportedVersion = errors.New("unsupported config version")
)

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns every problem found.
// Activations naming unknown gates are not errors here; they are reported as
// orphans when the registry is built.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	var errs []error

	if cfg.Version > config.CurrentConfigVersion {
		errs = append(errs, errors.Wrapf(
			ErrUnsupportedVersion,
			"version %d (supported: %d)",
			cfg.Version,
			config.CurrentConfigVersion,
		))
	}

	errs = append(errs, v.validateDispatch(cfg.Dispatch)...)
	errs = append(errs, v.validateGates(cfg.Gates)...)
	errs = append(errs, v.validateActivation(cfg.Activation)...)

	if _, err := HostSet(cfg); err != nil {
		errs = append(errs, errors.Wrap(err, "hosts"))
	}

	if cfg.TaskStore != nil && cfg.TaskStore.Timeout < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidConfig, "task_store.timeout must be positive"))
	}

	if cfg.CrashDump != nil && cfg.CrashDump.MaxDumps != nil && *cfg.CrashDump.MaxDumps < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidConfig, "crash_dump.max_dumps must be >= 0"))
	}

	if len(errs) > 0 {
		return errors.Join(
			errors.Wrapf(ErrInvalidConfig, "validation failed with %d error(s)", len(errs)),
			combineErrors(errs),
		)
	}

	return nil
}

func (*Validator) validateDispatch(d *config.DispatchConfig) []error {
	if d == nil {
		return nil
	}

	var errs []error

	if d.Timeout < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidDispatch, "timeout must be positive"))
	}

	if d.MaxConcurrency != nil && *d.MaxConcurrency < 0 {
		errs = append(errs, errors.Wrapf(
			ErrInvalidDispatch,
			"max_concurrency must be >= 0, got %d",
			*d.MaxConcurrency,
		))
	}

	return errs
}

func (*Validator) validateGates(gates []config.GateConfig) []error {
	var (
		errs []error
		seen = make(map[string]bool, len(gates))
	)

	for i, g := range gates {
		label := g.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		if g.Name == "" {
			errs = append(errs, errors.Wrapf(ErrInvalidGate, "gate %s: name is required", label))
		} else if seen[g.Name] {
			errs = append(errs, errors.Wrapf(ErrInvalidGate, "gate %q: duplicate name", g.Name))
		}

		seen[g.Name] = true

		if !slices.Contains(config.GateTypes(), g.Type) {
			errs = append(errs, errors.Wrapf(
				ErrInvalidGate,
				"gate %s: unknown type %q (valid: %s)",
				label,
				g.Type,
				strings.Join(config.GateTypes(), ", "),
			))
		}

		if _, err := gate.ParseRunMode(g.Mode); err != nil {
			errs = append(errs, errors.Wrapf(err, "gate %s", label))
		}

		if g.Timeout < 0 {
			errs = append(errs, errors.Wrapf(ErrInvalidGate, "gate %s: timeout must be positive", label))
		}

		if g.ToolPattern != "" {
			if _, err := registry.ToolNameMatches(g.ToolPattern); err != nil {
				errs = append(errs, errors.Wrapf(err, "gate %s: tool_pattern", label))
			}
		}
	}

	return errs
}

func (*Validator) validateActivation(activation map[string][]string) []error {
	var errs []error

	for _, kindName := range slices.Sorted(maps.Keys(activation)) {
		if _, err := event.ParseKind(kindName); err != nil {
			errs = append(errs, errors.Wrapf(ErrInvalidActivation, "%v", err))

			continue
		}

		seen := make(map[string]bool)

		for _, name := range activation[kindName] {
			if name == "" {
				errs = append(errs, errors.Wrapf(ErrInvalidActivation, "%s: empty gate name", kindName))

				continue
			}

			if seen[name] {
				errs = append(errs, errors.Wrapf(
					ErrInvalidActivation,
					"%s: gate %q listed twice",
					kindName,
					name,
				))
			}

			seen[name] = true
		}
	}

	return errs
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...)
}

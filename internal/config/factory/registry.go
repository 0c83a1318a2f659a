// Package factory builds the gate registry from configuration.
package factory

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// RegistryBuilder builds a sealed gate registry from configuration.
type RegistryBuilder struct {
	factory *gates.Factory
	log     logger.Logger
}

// NewRegistryBuilder creates a new RegistryBuilder.
func NewRegistryBuilder(factory *gates.Factory, log logger.Logger) *RegistryBuilder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	if factory == nil {
		factory = gates.NewFactory(gates.Deps{Log: log})
	}

	return &RegistryBuilder{factory: factory, log: log}
}

// Build registers every enabled gate, applies the activation map and seals
// the registry. Every gate and activation problem is reported together.
func (b *RegistryBuilder) Build(cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New()

	var errs []error

	for i := range cfg.Gates {
		gc := &cfg.Gates[i]

		if !gc.IsEnabled() {
			b.log.Debug("gate disabled", "gate", gc.Name)

			continue
		}

		registration, err := b.registration(gc)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := reg.Register(registration); err != nil {
			errs = append(errs, err)
		}
	}

	for kindName, names := range cfg.Activation {
		kind, err := event.ParseKind(kindName)
		if err != nil {
			errs = append(errs, errors.Wrap(err, "activation"))

			continue
		}

		if err := reg.Activate(kind, names...); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	reg.Seal()

	b.log.Debug("registry built", "gate_count", reg.Count())

	return reg, nil
}

// registration leaves Timeout zero when the gate has none so the
// dispatcher default applies.
func (b *RegistryBuilder) registration(gc *config.GateConfig) (registry.Registration, error) {
	mode, err := gate.ParseRunMode(gc.Mode)
	if err != nil {
		return registry.Registration{}, errors.Wrapf(err, "gate %q", gc.Name)
	}

	predicate, err := Predicate(gc)
	if err != nil {
		return registry.Registration{}, err
	}

	impl, err := b.factory.Build(gc)
	if err != nil {
		return registry.Registration{}, err
	}

	return registry.Registration{
		Name:      gc.Name,
		Gate:      impl,
		Mode:      mode,
		Timeout:   gc.Timeout.ToDuration(),
		Predicate: predicate,
	}, nil
}

// Predicate combines the include filters of a gate and negates its exclude
// filters. A gate with no filters matches every event.
func Predicate(gc *config.GateConfig) (registry.Predicate, error) {
	var preds []registry.Predicate

	if len(gc.Tools) > 0 {
		preds = append(preds, registry.ToolNameIn(gc.Tools...))
	}

	if gc.ToolPattern != "" {
		p, err := registry.ToolNameMatches(gc.ToolPattern)
		if err != nil {
			return nil, errors.Wrapf(err, "gate %q tool_pattern", gc.Name)
		}

		preds = append(preds, p)
	}

	if len(gc.Paths) > 0 {
		preds = append(preds, registry.PathMatches(gc.Paths...))
	}

	var excludes []registry.Predicate

	if len(gc.ExcludeTools) > 0 {
		excludes = append(excludes, registry.ToolNameIn(gc.ExcludeTools...))
	}

	if len(gc.ExcludePaths) > 0 {
		excludes = append(excludes, registry.PathMatches(gc.ExcludePaths...))
	}

	if len(excludes) > 0 {
		preds = append(preds, registry.Not(registry.Or(excludes...)))
	}

	if len(preds) == 0 {
		return nil, nil
	}

	return registry.And(preds...), nil
}

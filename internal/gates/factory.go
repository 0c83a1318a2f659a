package gates

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/exec"
	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// ErrUnknownGateType is returned for a gate type without a builder.
var ErrUnknownGateType = errors.New("unknown gate type")

// Deps are the collaborators handed to gate builders.
type Deps struct {
	Log       logger.Logger
	Tools     exec.ToolChecker
	NewRunner RunnerFactory
}

// Builder creates a gate from its configuration.
type Builder func(cfg *config.GateConfig, deps Deps) (gate.Gate, error)

// Factory maps gate types to builders.
type Factory struct {
	builders map[string]Builder
	deps     Deps
}

// NewFactory creates a factory with every built-in gate type.
func NewFactory(deps Deps) *Factory {
	if deps.Log == nil {
		deps.Log = logger.NewNoOpLogger()
	}

	f := &Factory{builders: make(map[string]Builder), deps: deps}

	f.Add(config.GateTypeProtectedPaths, buildProtectedPaths)
	f.Add(config.GateTypeCEL, buildCEL)
	f.Add(config.GateTypeCommand, buildCommand)
	f.Add(config.GateTypeActiveTask, buildActiveTask)
	f.Add(config.GateTypeTaskClosure, buildTaskClosure)
	f.Add(config.GateTypeContext, buildContext)

	return f
}

// Add registers or replaces the builder for a gate type.
func (f *Factory) Add(gateType string, b Builder) {
	f.builders[gateType] = b
}

// Has reports whether the gate type is known.
func (f *Factory) Has(gateType string) bool {
	_, ok := f.builders[gateType]

	return ok
}

// Build creates the gate described by cfg.
func (f *Factory) Build(cfg *config.GateConfig) (gate.Gate, error) {
	b, ok := f.builders[cfg.Type]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownGateType, "gate %q: %q", cfg.Name, cfg.Type)
	}

	deps := f.deps
	deps.Log = deps.Log.With("gate", cfg.Name)

	g, err := b(cfg, deps)
	if err != nil {
		return nil, errors.Wrapf(err, "gate %q (%s)", cfg.Name, cfg.Type)
	}

	return g, nil
}

//nolint:ireturn // builders return the gate interface
func buildProtectedPaths(cfg *config.GateConfig, deps Deps) (gate.Gate, error) {
	var opts config.ProtectedPathsOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	return NewProtectedPaths(opts, deps.Log)
}

//nolint:ireturn // builders return the gate interface
func buildCEL(cfg *config.GateConfig, deps Deps) (gate.Gate, error) {
	var opts config.CELOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	return NewCEL(opts, deps.Log)
}

//nolint:ireturn // builders return the gate interface
func buildCommand(cfg *config.GateConfig, deps Deps) (gate.Gate, error) {
	var opts config.CommandOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	return NewCommand(opts, deps.Tools, deps.NewRunner, deps.Log)
}

//nolint:ireturn // builders return the gate interface
func buildActiveTask(cfg *config.GateConfig, deps Deps) (gate.Gate, error) {
	var opts config.ActiveTaskOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	return NewActiveTask(opts, deps.Log)
}

//nolint:ireturn // builders return the gate interface
func buildTaskClosure(cfg *config.GateConfig, deps Deps) (gate.Gate, error) {
	var opts config.TaskClosureOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	return NewTaskClosure(opts, deps.Log), nil
}

//nolint:ireturn // builders return the gate interface
func buildContext(cfg *config.GateConfig, deps Deps) (gate.Gate, error) {
	var opts config.ContextOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	return NewContext(opts, deps.Log)
}

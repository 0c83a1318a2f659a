package checkers

import (
	"context"
	"fmt"
	"slices"

	"github.com/smykla-skalski/hookrouter/internal/config/factory"
	"github.com/smykla-skalski/hookrouter/internal/doctor"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

const skipNoConfig = "configuration did not load"

func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	return factory.NewRegistryBuilder(nil, nil).Build(cfg)
}

// GateRegistryChecker verifies every enabled gate builds and every
// activation references a known kind.
type GateRegistryChecker struct{ in Input }

func (*GateRegistryChecker) Name() string              { return "gates-build" }
func (*GateRegistryChecker) Category() doctor.Category { return doctor.CategoryGates }

func (c *GateRegistryChecker) Check(context.Context) doctor.CheckResult {
	if c.in.Config == nil {
		return doctor.Skip(c.Name(), skipNoConfig)
	}

	reg, err := buildRegistry(c.in.Config)
	if err != nil {
		return doctor.FailError(c.Name(), err.Error())
	}

	return doctor.Pass(c.Name(), fmt.Sprintf("%d gate(s) registered", reg.Count()))
}

// OrphanChecker reports gates that are never activated and activations
// naming unknown or disabled gates.
type OrphanChecker struct{ in Input }

func (*OrphanChecker) Name() string              { return "gates-orphans" }
func (*OrphanChecker) Category() doctor.Category { return doctor.CategoryGates }

func (c *OrphanChecker) Check(context.Context) doctor.CheckResult {
	if c.in.Config == nil {
		return doctor.Skip(c.Name(), skipNoConfig)
	}

	reg, err := buildRegistry(c.in.Config)
	if err != nil {
		return doctor.Skip(c.Name(), "gates did not build")
	}

	orphans := reg.ListOrphaned()
	if len(orphans) == 0 {
		return doctor.Pass(c.Name(), "every gate is activated")
	}

	details := make([]string, 0, len(orphans))
	for _, o := range orphans {
		details = append(details, o.Name+": "+o.Reason.String())
	}

	return doctor.FailWarning(c.Name(), fmt.Sprintf("%d orphaned gate(s)", len(orphans))).
		WithDetails(details...)
}

// CommandProgramChecker verifies the programs of enabled command gates resolve.
type CommandProgramChecker struct{ in Input }

func (*CommandProgramChecker) Name() string              { return "gates-commands" }
func (*CommandProgramChecker) Category() doctor.Category { return doctor.CategoryGates }

func (c *CommandProgramChecker) Check(context.Context) doctor.CheckResult {
	if c.in.Config == nil {
		return doctor.Skip(c.Name(), skipNoConfig)
	}

	var (
		checked int
		missing []string
	)

	for i := range c.in.Config.Gates {
		gc := &c.in.Config.Gates[i]
		if gc.Type != config.GateTypeCommand || !gc.IsEnabled() {
			continue
		}

		var opts config.CommandOptions
		if err := gc.DecodeOptions(&opts); err != nil || opts.Command == "" {
			continue
		}

		checked++

		if err := c.in.Tools.RequireTool(opts.Command); err != nil {
			missing = append(missing, gc.Name+": "+err.Error())
		}
	}

	switch {
	case checked == 0:
		return doctor.Skip(c.Name(), "no command gates")
	case len(missing) > 0:
		slices.Sort(missing)

		return doctor.FailError(c.Name(), "command gate programs not found").
			WithDetails(missing...)
	default:
		return doctor.Pass(c.Name(), fmt.Sprintf("%d command gate program(s) found", checked))
	}
}

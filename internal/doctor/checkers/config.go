package checkers

import (
	"context"
	"fmt"
	"os"

	"github.com/smykla-skalski/hookrouter/internal/doctor"
)

// ConfigLoadChecker verifies the configuration loads and validates.
type ConfigLoadChecker struct{ in Input }

func (*ConfigLoadChecker) Name() string              { return "config-load" }
func (*ConfigLoadChecker) Category() doctor.Category { return doctor.CategoryConfig }

func (c *ConfigLoadChecker) Check(context.Context) doctor.CheckResult {
	if c.in.ConfigErr != nil {
		return doctor.FailError(c.Name(), c.in.ConfigErr.Error())
	}

	if len(c.in.ConfigFiles) == 0 {
		return doctor.Pass(c.Name(), "no config files, using built-in defaults")
	}

	return doctor.Pass(c.Name(), fmt.Sprintf("loaded %d config file(s)", len(c.in.ConfigFiles))).
		WithDetails(c.in.ConfigFiles...)
}

// ConfigPermissionsChecker flags config files other users can modify.
// World-writable files are rejected by the loader; group-writable ones are
// accepted but reported.
type ConfigPermissionsChecker struct{ in Input }

func (*ConfigPermissionsChecker) Name() string              { return "config-permissions" }
func (*ConfigPermissionsChecker) Category() doctor.Category { return doctor.CategoryConfig }

func (c *ConfigPermissionsChecker) Check(context.Context) doctor.CheckResult {
	if len(c.in.ConfigFiles) == 0 {
		return doctor.Skip(c.Name(), "no config files")
	}

	var worldWritable, groupWritable []string

	for _, path := range c.in.ConfigFiles {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		perm := info.Mode().Perm()

		switch {
		case perm&0o002 != 0:
			worldWritable = append(worldWritable, fmt.Sprintf("%s (%s)", path, perm))
		case perm&0o020 != 0:
			groupWritable = append(groupWritable, fmt.Sprintf("%s (%s)", path, perm))
		}
	}

	switch {
	case len(worldWritable) > 0:
		return doctor.FailError(c.Name(), "config files are world-writable").
			WithDetails(worldWritable...)
	case len(groupWritable) > 0:
		return doctor.FailWarning(c.Name(), "config files are group-writable").
			WithDetails(groupWritable...)
	default:
		return doctor.Pass(c.Name(), "config files are private")
	}
}

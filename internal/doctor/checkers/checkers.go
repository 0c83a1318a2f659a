// Package checkers provides the built-in doctor health checks.
package checkers

import (
	"github.com/smykla-skalski/hookrouter/internal/doctor"
	"github.com/smykla-skalski/hookrouter/internal/exec"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

// Input is the environment the checks inspect.
type Input struct {
	// Config is the effective configuration, nil when loading failed.
	Config *config.Config

	// ConfigErr is the loading error, if any.
	ConfigErr error

	// ConfigFiles are the config files that exist on disk.
	ConfigFiles []string

	// Tools resolves command gate programs. Default: PATH lookup.
	Tools exec.ToolChecker

	// StateDir is where the log file and crash dumps live.
	StateDir string

	// CrashDir is the crash dump directory.
	CrashDir string
}

// All returns every built-in checker for in.
func All(in Input) []doctor.HealthChecker {
	if in.Tools == nil {
		in.Tools = exec.NewToolChecker()
	}

	return []doctor.HealthChecker{
		&ConfigLoadChecker{in: in},
		&ConfigPermissionsChecker{in: in},
		&GateRegistryChecker{in: in},
		&OrphanChecker{in: in},
		&CommandProgramChecker{in: in},
		&TaskStoreChecker{in: in},
		&StateDirChecker{in: in},
		&CrashDumpChecker{in: in},
	}
}

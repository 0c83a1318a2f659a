package main

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"hookrouter": mainFunc,
	})
}

// mainFunc wraps the CLI for testscript execution.
func mainFunc() {
	hostFlag = ""
	eventFlag = ""
	configPath = ""
	globalConfig = ""
	logFileFlag = ""
	debugMode = true
	traceMode = false
	sequentialRun = false
	noColor = false
	crashDryRun = false
	crashYes = false
	crashFormat = "json"

	os.Exit(mainWithExitCode())
}

// setupTestEnv points every user-level path into the script work directory.
func setupTestEnv(env *testscript.Env) error {
	env.Setenv("HOME", env.WorkDir)
	env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/.config")
	env.Setenv("XDG_DATA_HOME", env.WorkDir+"/.local/share")
	env.Setenv("XDG_STATE_HOME", env.WorkDir+"/.local/state")

	return nil
}

// cmdExits runs a program and asserts its exact exit code:
//
//	exits CODE program [args...]
//
// Stdout and stderr are kept for the following stdout/stderr assertions.
func cmdExits(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! exits")
	}

	if len(args) < 2 {
		ts.Fatalf("usage: exits CODE program [args...]")
	}

	want, err := strconv.Atoi(args[0])
	ts.Check(err)

	got := 0

	if err := ts.Exec(args[1], args[2:]...); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			ts.Fatalf("running %s: %v", args[1], err)
		}

		got = exitErr.ExitCode()
	}

	if got != want {
		ts.Fatalf("%s exited %d, want %d", args[1], got, want)
	}
}

func params(dir string) testscript.Params {
	return testscript.Params{
		Dir:   dir,
		Setup: setupTestEnv,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"exits": cmdExits,
		},
	}
}

func TestScriptDispatch(t *testing.T) {
	testscript.Run(t, params("testdata/scripts/dispatch"))
}

func TestScriptCommands(t *testing.T) {
	testscript.Run(t, params("testdata/scripts/commands"))
}

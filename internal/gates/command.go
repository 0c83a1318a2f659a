package gates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/exec"
	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// maxStderrInMessage caps the stderr excerpt surfaced in a warning.
const maxStderrInMessage = 512

// ErrNoCommand is returned when a command gate has no program configured.
var ErrNoCommand = errors.New("command is required")

// RunnerFactory creates a runner for one evaluation.
type RunnerFactory func(dir string, env []string) exec.CommandRunner

// DefaultRunnerFactory spawns real processes, bounded only by the context.
func DefaultRunnerFactory(dir string, env []string) exec.CommandRunner {
	return exec.NewCommandRunner(0, exec.WithDir(dir), exec.WithEnv(env...))
}

// commandInput is the document written to the decision program's stdin.
type commandInput struct {
	Event   map[string]any `json:"event"`
	Session map[string]any `json:"session"`
}

// Command delegates the decision to an external program. The program reads
// the event as JSON on stdin and prints a verdict as JSON on stdout; empty
// output means allow.
type Command struct {
	opts      config.CommandOptions
	env       []string
	tools     exec.ToolChecker
	newRunner RunnerFactory
	log       logger.Logger
}

// NewCommand creates a command gate.
func NewCommand(
	opts config.CommandOptions,
	tools exec.ToolChecker,
	newRunner RunnerFactory,
	log logger.Logger,
) (*Command, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, ErrNoCommand
	}

	env := make([]string, 0, len(opts.Env))
	for _, k := range slices.Sorted(maps.Keys(opts.Env)) {
		env = append(env, k+"="+opts.Env[k])
	}

	if tools == nil {
		tools = exec.NewToolChecker()
	}

	if newRunner == nil {
		newRunner = DefaultRunnerFactory
	}

	return &Command{
		opts:      opts,
		env:       env,
		tools:     tools,
		newRunner: newRunner,
		log:       log,
	}, nil
}

// Evaluate runs the program and parses its verdict. Failures surface as
// warnings; only a verdict printed by the program can deny.
func (g *Command) Evaluate(ctx context.Context, ev *event.Event, state session.State) (*gate.Verdict, error) {
	program := xdg.ExpandPathSilent(g.opts.Command)

	if err := g.tools.RequireTool(program); err != nil {
		return gate.Warn(fmt.Sprintf("Decision program %s is not available", g.opts.Command)), nil
	}

	input, err := json.Marshal(commandInput{Event: ev.AsMap(), Session: sessionMap(state)})
	if err != nil {
		return nil, errors.Wrap(err, "encoding command input")
	}

	dir := g.opts.Dir
	if dir == "" {
		dir = ev.Cwd
	}

	runner := g.newRunner(xdg.Resolve(dir, ev.Cwd), g.env)
	result := runner.RunWithStdin(ctx, bytes.NewReader(input), program, g.opts.Args...)

	if result.TimedOut {
		return nil, errors.Wrapf(result.Err, "decision program %s", g.opts.Command)
	}

	if result.Failed() {
		g.log.Info("decision program failed",
			"command", g.opts.Command,
			"exit_code", result.ExitCode,
			"stderr", result.Stderr,
		)

		msg := fmt.Sprintf("Decision program %s failed with exit code %d", g.opts.Command, result.ExitCode)
		if excerpt := excerpt(result.Stderr); excerpt != "" {
			msg += ": " + excerpt
		}

		return gate.Warn(msg).WithMetadata(MetadataExitCode, result.ExitCode), nil
	}

	return parseVerdict(g.opts.Command, result.Stdout), nil
}

// parseVerdict decodes the program output; malformed output warns.
func parseVerdict(command, stdout string) *gate.Verdict {
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		return gate.Allow()
	}

	var v gate.Verdict

	dec := json.NewDecoder(strings.NewReader(stdout))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		return gate.Warn(fmt.Sprintf("Decision program %s printed an unreadable verdict: %v", command, err))
	}

	return &v
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrInMessage {
		s = s[:maxStderrInMessage] + "..."
	}

	return s
}

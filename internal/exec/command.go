// Package exec provides abstractions for executing external commands.
package exec

//go:generate mockgen -source=command.go -destination=command_mock.go -package=exec

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// waitDelay bounds how long Run waits for output pipes after the process
// group was killed.
const waitDelay = 100 * time.Millisecond

// CommandResult contains the result of a command execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	TimedOut bool
}

// Success returns true if the command exited with code 0 and no error.
func (r *CommandResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Failed returns true if the command did not succeed.
func (r *CommandResult) Failed() bool {
	return !r.Success()
}

// CommandRunner executes external commands with timeout and output capture.
type CommandRunner interface {
	// Run executes a command and returns the result.
	Run(ctx context.Context, name string, args ...string) *CommandResult

	// RunWithStdin executes a command with stdin input.
	RunWithStdin(ctx context.Context, stdin io.Reader, name string, args ...string) *CommandResult

	// RunWithTimeout executes a command with a specific timeout.
	RunWithTimeout(timeout time.Duration, name string, args ...string) *CommandResult
}

// commandRunner implements CommandRunner.
type commandRunner struct {
	defaultTimeout time.Duration
	dir            string
	env            []string
}

// RunnerOption configures a CommandRunner.
type RunnerOption func(*commandRunner)

// WithDir sets the working directory of spawned commands.
func WithDir(dir string) RunnerOption {
	return func(r *commandRunner) {
		r.dir = dir
	}
}

// WithEnv appends KEY=VALUE entries to the inherited environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *commandRunner) {
		r.env = append(r.env, env...)
	}
}

// NewCommandRunner creates a new CommandRunner with the given default timeout.
// A non-positive timeout leaves commands bounded only by the caller's context.
func NewCommandRunner(defaultTimeout time.Duration, opts ...RunnerOption) CommandRunner {
	r := &commandRunner{
		defaultTimeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes a command and returns the result.
func (r *commandRunner) Run(ctx context.Context, name string, args ...string) *CommandResult {
	return r.run(ctx, nil, name, args...)
}

// RunWithStdin executes a command with stdin input.
func (r *commandRunner) RunWithStdin(
	ctx context.Context,
	stdin io.Reader,
	name string,
	args ...string,
) *CommandResult {
	return r.run(ctx, stdin, name, args...)
}

// RunWithTimeout executes a command with a specific timeout.
func (r *commandRunner) RunWithTimeout(timeout time.Duration, name string, args ...string) *CommandResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return r.run(ctx, nil, name, args...)
}

func (r *commandRunner) run(ctx context.Context, stdin io.Reader, name string, args ...string) *CommandResult {
	if r.defaultTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.defaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Dir = r.dir

	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	setProcGroup(cmd)

	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.TimedOut = errors.Is(ctxErr, context.DeadlineExceeded)
		result.ExitCode = -1
		result.Err = errors.Wrapf(ctxErr, "executing %s", name)

		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = errors.Wrapf(err, "%s exited with code %d", name, result.ExitCode)

		return result
	}

	if err != nil {
		result.ExitCode = -1
		result.Err = errors.Wrapf(err, "executing %s", name)
	}

	return result
}

// Package main provides the CLI entry point for hookrouter.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookrouter/internal/crashdump"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

const (
	// ExitCodeFatal is used for malformed input, unknown hosts and config
	// errors. Both hosts treat it as a non-blocking failure and show stderr.
	ExitCodeFatal = 1

	// ExitCodeCrash indicates an unexpected panic.
	ExitCodeCrash = 3
)

var (
	hostFlag      string
	eventFlag     string
	configPath    string
	globalConfig  string
	logFileFlag   string
	debugMode     bool
	traceMode     bool
	sequentialRun bool
	noColor       bool

	// projectedExit is the exit code chosen by the projector for the last dispatch.
	projectedExit int

	// crashEvent and crashConfig are attached to a crash dump when the
	// router panics mid-dispatch.
	crashEvent  *event.Event
	crashConfig *config.Config
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "hookrouter: panic: %v\n", r)
			writeCrashDump(r)

			exitCode = ExitCodeCrash
		}
	}()

	projectedExit = 0
	crashEvent = nil
	crashConfig = nil

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hookrouter: %v\n", err)

		return ExitCodeFatal
	}

	return projectedExit
}

// writeCrashDump records the panic. It never panics itself.
func writeCrashDump(recovered any) {
	defer func() { _ = recover() }()

	recorder, err := crashdump.NewRecorder(version, crashConfig)
	if err != nil || recorder == nil {
		return
	}

	if path, err := recorder.Record(recovered, crashEvent, crashConfig); err == nil {
		fmt.Fprintf(os.Stderr, "hookrouter: crash dump written to %s\n", path)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hookrouter",
	Short: "Lifecycle hook router for AI coding agents",
	Long: `hookrouter reads one lifecycle event from an agent host (Claude Code or
Gemini CLI) on stdin, runs the gates activated for the event kind and writes
the combined decision back in the exact shape the host expects.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE:              run,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.Flags().StringVar(&hostFlag, "host", "", "Host runtime (claude, gemini); detected when empty")
	rootCmd.Flags().StringVarP(
		&eventFlag,
		"event",
		"e",
		"",
		"Native event name, overriding hook_event_name in the payload",
	)
	rootCmd.Flags().BoolVar(&sequentialRun, "sequential", false, "Run async gates inline")

	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to project configuration file (default: .hookrouter/config.toml or hookrouter.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&globalConfig,
		"global-config",
		"",
		"Path to global configuration file (default: $XDG_CONFIG_HOME/hookrouter/config.toml)",
	)
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Log file path")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func run(cmd *cobra.Command, _ []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return errors.Wrap(err, "reading stdin")
	}

	out, err := route(context.Background(), raw, routeOptions{
		host:  hostFlag,
		event: eventFlag,
		flags: buildFlagsMap(cmd),
	})
	if err != nil {
		return err
	}

	if len(out.Stdout) > 0 {
		if _, err := cmd.OutOrStdout().Write(out.Stdout); err != nil {
			return errors.Wrap(err, "writing stdout")
		}
	}

	if len(out.Stderr) > 0 {
		if _, err := cmd.ErrOrStderr().Write(out.Stderr); err != nil {
			return errors.Wrap(err, "writing stderr")
		}
	}

	projectedExit = out.ExitCode

	return nil
}

// buildFlagsMap converts explicitly set CLI flags to a map for the config
// provider. Unset flags must not shadow file or env values.
func buildFlagsMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	set := func(name string, value any) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = value
		}
	}

	set("sequential", sequentialRun)
	set("log-file", logFileFlag)
	set("debug", debugMode)
	set("trace", traceMode)

	return flags
}

package main

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/hookrouter/internal/config"
	"github.com/smykla-skalski/hookrouter/internal/config/factory"
	"github.com/smykla-skalski/hookrouter/internal/dispatcher"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/host"
	"github.com/smykla-skalski/hookrouter/internal/projector"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/internal/taskstore"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

type routeOptions struct {
	host  string
	event string
	flags map[string]any
}

// route handles one event end to end. Errors are fatal to the process:
// they come from decoding, configuration or encoding, never from a gate.
func route(ctx context.Context, raw []byte, opts routeOptions) (*projector.Output, error) {
	// Decoding does not depend on exit code overrides, so the default host
	// set is enough to learn the event's cwd before config is loaded.
	defaults, err := host.Defaults(nil)
	if err != nil {
		return nil, err
	}

	detected, ev, err := defaults.Decode(raw, opts.host, opts.event)
	if err != nil {
		return nil, err
	}

	crashEvent = ev

	cfg, err := loadConfig(ev.Cwd, opts.flags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	crashConfig = cfg

	log, closeLog := newLogger(cfg)
	defer closeLog()

	log = log.With("host", ev.Host, "event", ev.HostEventName, "session_id", ev.SessionID)
	log.Info("hook invoked", "kind", ev.Kind.String(), "tool", ev.ToolName)

	hosts, err := internalconfig.HostSet(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid host overrides")
	}

	adapter, ok := hosts.Get(detected.Name())
	if !ok {
		return nil, &host.UnknownHostError{Host: detected.Name()}
	}

	reg, err := buildRegistry(cfg, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build gate registry")
	}

	logOrphans(reg, log)

	state, closeState := newState(cfg, ev, log)
	defer closeState()

	disp := dispatcher.NewDispatcher(
		reg,
		log,
		dispatcher.WithDefaultTimeout(cfg.GetDispatch().Timeout.ToDuration()),
		dispatcher.WithMaxConcurrency(cfg.GetDispatch().GetMaxConcurrency()),
		dispatcher.WithSequential(cfg.GetDispatch().IsSequential()),
	)

	agg := disp.Dispatch(ctx, ev, state)

	out, err := projector.Project(adapter, &agg, ev)
	if err != nil {
		log.Error("projection failed", "error", err)

		return nil, err
	}

	for _, note := range out.Notes {
		log.Info("projection note", "note", note)
	}

	log.Info("hook answered",
		"outcome", out.Outcome.String(),
		"exit_code", out.ExitCode,
	)

	return out, nil
}

// loadConfig loads configuration for the project rooted at workDir.
func loadConfig(workDir string, flags map[string]any) (*config.Config, error) {
	var opts []internalconfig.LoaderOption

	if globalConfig != "" {
		opts = append(opts, internalconfig.WithGlobalConfig(globalConfig))
	}

	if configPath != "" {
		opts = append(opts, internalconfig.WithProjectConfig(configPath))
	}

	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	return internalconfig.NewKoanfLoader(workDir, opts...).Load(flags)
}

// newLogger opens the configured log file. Logging problems never affect
// the decision, so a failure falls back to a no-op logger.
func newLogger(cfg *config.Config) (logger.Logger, func()) {
	logCfg := cfg.GetLog()

	path := xdg.ExpandPathSilent(logCfg.File)
	if path == "" {
		path = xdg.LogFile()
	}

	log, err := logger.NewFileLogger(path, logCfg.IsDebug(), logCfg.IsTrace())
	if err != nil {
		return logger.NewNoOpLogger(), func() {}
	}

	return log, func() { _ = log.Close() }
}

func buildRegistry(cfg *config.Config, log logger.Logger) (*registry.Registry, error) {
	f := gates.NewFactory(gates.Deps{Log: log})

	return factory.NewRegistryBuilder(f, log).Build(cfg)
}

func logOrphans(reg *registry.Registry, log logger.Logger) {
	for _, o := range reg.ListOrphaned() {
		log.Debug("orphaned gate", "gate", o.Name, "reason", o.Reason.String())
	}
}

// newState builds the session snapshot, backed by the task store when enabled.
func newState(cfg *config.Config, ev *event.Event, log logger.Logger) (session.State, func()) {
	opts := []session.Option{session.WithTranscriptPath(ev.TranscriptPath)}
	closeFn := func() {}

	storeCfg := cfg.GetTaskStore()
	if storeCfg.IsEnabled() {
		path := xdg.ExpandPathSilent(storeCfg.Path)
		if path == "" {
			path = xdg.TaskStoreFile()
		}

		store := taskstore.New(
			path,
			taskstore.WithTimeout(storeCfg.Timeout.ToDuration()),
			taskstore.WithLogger(log),
		)

		opts = append(opts, session.WithTaskSource(store))
		closeFn = func() { _ = store.Close() }
	}

	return session.NewSnapshot(ev.SessionID, ev.Cwd, opts...), closeFn
}

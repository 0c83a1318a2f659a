// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".hookrouter"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "hookrouter.toml"

	envPrefix = "HOOKROUTER_"
)

// envSections are the config sections settable from the environment. Gates,
// activations and host overrides are file-only.
var envSections = []string{"dispatch", "task_store", "log", "crash_dump"}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (HOOKROUTER_*)
// 3. Project Config (.hookrouter/config.toml or hookrouter.toml)
// 4. Global Config ($XDG_CONFIG_HOME/hookrouter/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k           *koanf.Koanf
	paths       xdg.PathResolver
	workDir     string
	globalPath  string
	projectPath string
}

// LoaderOption configures a KoanfLoader.
type LoaderOption func(*KoanfLoader)

// WithGlobalConfig replaces the global config location. The file must exist.
func WithGlobalConfig(path string) LoaderOption {
	return func(l *KoanfLoader) {
		l.globalPath = path
	}
}

// WithProjectConfig replaces project config discovery. The file must exist.
func WithProjectConfig(path string) LoaderOption {
	return func(l *KoanfLoader) {
		l.projectPath = path
	}
}

// WithPaths replaces the user-level path resolver (for testing).
func WithPaths(paths xdg.PathResolver) LoaderOption {
	return func(l *KoanfLoader) {
		l.paths = paths
	}
}

// NewKoanfLoader creates a loader for the given working directory. An empty
// workDir disables project config discovery.
func NewKoanfLoader(workDir string, opts ...LoaderOption) *KoanfLoader {
	l := &KoanfLoader{
		k:       koanf.New("."),
		paths:   xdg.DefaultResolver(),
		workDir: workDir,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources with precedence and validates it.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
//
// Gates merge by name: a project gate replaces a global gate with the same
// name, which replaces a default gate with the same name.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	// Reset koanf instance for fresh load
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(l.paths), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	layers := [][]config.GateConfig{DefaultGates()}

	globalGates, err := l.loadLayer(l.GlobalConfigPath(), l.globalPath != "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	projectGates, err := l.loadLayer(l.FindProjectConfigPath(), l.projectPath != "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load project config")
	}

	layers = append(layers, globalGates, projectGates)

	envOpt := env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: CustomDecoderConfig(&cfg),
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.Gates = mergeGates(layers...)

	return &cfg, nil
}

// loadLayer merges one TOML file into the main koanf instance and returns
// the gates it declares. A missing optional file is skipped.
func (l *KoanfLoader) loadLayer(path string, required bool) ([]config.GateConfig, error) {
	if path == "" {
		return nil, nil
	}

	fk, err := loadTOMLFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrConfigNotFound, "%s", path)
		}

		return nil, err
	}

	var gates []config.GateConfig

	if fk.Exists("gates") {
		if err := fk.UnmarshalWithConf("gates", &gates, koanf.UnmarshalConf{
			Tag:           "koanf",
			DecoderConfig: CustomDecoderConfig(&gates),
		}); err != nil {
			return nil, errors.Wrapf(err, "%s: gates", path)
		}
	}

	if err := l.k.Merge(fk); err != nil {
		return nil, errors.Wrapf(err, "merging %s", path)
	}

	return gates, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func loadTOMLFile(path string) (*koanf.Koanf, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// Security check: reject world-writable files
	if info.Mode().Perm()&0o002 != 0 {
		return nil, errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	return fk, nil
}

// envTransform transforms environment variable names to config paths.
// HOOKROUTER_DISPATCH_MAX_CONCURRENCY → dispatch.max_concurrency
// HOOKROUTER_TASK_STORE_PATH → task_store.path
// Unknown sections are dropped.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest, value
		}
	}

	return "", nil
}

// flagsToConfig converts CLI flags to a configuration map.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		switch key {
		case "sequential":
			if b, ok := value.(bool); ok {
				ensureMapKey(result, "dispatch")["sequential"] = b
			}

		case "timeout":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "dispatch")["timeout"] = s
			}

		case "log-file":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "log")["file"] = s
			}

		case "debug", "trace":
			if b, ok := value.(bool); ok {
				ensureMapKey(result, "log")[key] = b
			}
		}
	}

	return result
}

// ensureMapKey ensures a key exists as a map and returns it.
func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	if l.globalPath != "" {
		return l.globalPath
	}

	return l.paths.GlobalConfigFile()
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	if l.workDir == "" {
		return nil
	}

	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// FindProjectConfigPath returns the project config file in use, or an empty
// string when there is none.
func (l *KoanfLoader) FindProjectConfigPath() string {
	if l.projectPath != "" {
		return l.projectPath
	}

	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

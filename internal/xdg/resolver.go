package xdg

import "path/filepath"

// PathResolver resolves user-level paths for hookrouter.
// The default implementation uses os.UserHomeDir() and XDG env vars.
// Use ResolverFor() when paths should be relative to a specific home directory.
type PathResolver interface {
	GlobalConfigFile() string
	ConfigDir() string
	LogFile() string
	TaskStoreFile() string
	CrashDumpDir() string
}

// DefaultResolver returns a PathResolver using real XDG paths.
func DefaultResolver() PathResolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (defaultResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (defaultResolver) ConfigDir() string        { return ConfigDir() }
func (defaultResolver) LogFile() string          { return LogFile() }
func (defaultResolver) TaskStoreFile() string    { return TaskStoreFile() }
func (defaultResolver) CrashDumpDir() string     { return CrashDumpDir() }

// ResolverFor returns a PathResolver rooted at homeDir, ignoring XDG env vars.
func ResolverFor(homeDir string) PathResolver {
	return homeResolver{homeDir: homeDir}
}

type homeResolver struct {
	homeDir string
}

func (r homeResolver) ConfigDir() string {
	return filepath.Join(r.homeDir, ".config", appName)
}

func (r homeResolver) GlobalConfigFile() string {
	return filepath.Join(r.ConfigDir(), "config.toml")
}

func (r homeResolver) stateDir() string {
	return filepath.Join(r.homeDir, ".local", "state", appName)
}

func (r homeResolver) LogFile() string {
	return filepath.Join(r.stateDir(), "router.log")
}

func (r homeResolver) CrashDumpDir() string {
	return filepath.Join(r.stateDir(), "crashes")
}

func (r homeResolver) TaskStoreFile() string {
	return filepath.Join(r.homeDir, ".local", "share", appName, "tasks.db")
}

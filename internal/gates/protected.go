package gates

import (
	"cmp"
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
	"github.com/smykla-skalski/hookrouter/pkg/parser"
)

const defaultProtectedMessage = "Refusing to touch protected path {path} (matches {pattern})"

var (
	// ErrNoPatterns is returned when a protected-paths gate has no patterns.
	ErrNoPatterns = errors.New("at least one pattern is required")

	// ErrInvalidPattern is returned for malformed glob patterns.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ProtectedPaths stops tools from touching paths that match glob patterns.
type ProtectedPaths struct {
	patterns []string
	decision gate.Decision
	message  string
	shell    bool
	parser   *parser.BashParser
	log      logger.Logger
}

// NewProtectedPaths creates a protected-paths gate.
func NewProtectedPaths(opts config.ProtectedPathsOptions, log logger.Logger) (*ProtectedPaths, error) {
	if len(opts.Patterns) == 0 {
		return nil, ErrNoPatterns
	}

	patterns := make([]string, 0, len(opts.Patterns))

	for _, p := range opts.Patterns {
		expanded := filepath.ToSlash(xdg.ExpandPathSilent(p))
		if !doublestar.ValidatePattern(expanded) {
			return nil, errors.Wrapf(ErrInvalidPattern, "%q", p)
		}

		patterns = append(patterns, expanded)
	}

	decision := gate.DecisionDeny

	if opts.Decision != "" {
		d, err := gate.ParseDecision(opts.Decision)
		if err != nil {
			return nil, err
		}

		decision = d
	}

	if decision == gate.DecisionAllow {
		return nil, errors.Wrap(gate.ErrUnknownDecision, "protected paths cannot allow")
	}

	shell := true
	if opts.Shell != nil {
		shell = *opts.Shell
	}

	return &ProtectedPaths{
		patterns: patterns,
		decision: decision,
		message:  cmp.Or(opts.Message, defaultProtectedMessage),
		shell:    shell,
		parser:   parser.NewBashParser(),
		log:      log,
	}, nil
}

// Evaluate checks every path the tool call would touch.
func (g *ProtectedPaths) Evaluate(_ context.Context, ev *event.Event, _ session.State) (*gate.Verdict, error) {
	for _, p := range g.candidates(ev) {
		pattern, ok := g.match(p, ev.Cwd)
		if !ok {
			continue
		}

		resolved := xdg.Resolve(p, ev.Cwd)
		msg := expand(g.message, map[string]string{"path": resolved, "pattern": pattern})

		return gate.New(g.decision, msg).
			WithMetadata(MetadataProtectedPath, resolved).
			WithMetadata(MetadataPattern, pattern), nil
	}

	return gate.Allow(), nil
}

// candidates returns the raw paths named by the tool call.
func (g *ProtectedPaths) candidates(ev *event.Event) []string {
	var paths []string

	if p := ev.Path(); p != "" {
		paths = append(paths, p)
	}

	if !g.shell || !ev.IsShellTool() || ev.Command() == "" {
		return paths
	}

	result, err := g.parser.Parse(ev.Command())
	if err != nil {
		g.log.Debug("shell command not parsed", "error", err)

		return paths
	}

	return append(paths, result.TouchedPaths()...)
}

// match tries the absolute, raw and cwd-relative forms of a path.
func (g *ProtectedPaths) match(raw, cwd string) (string, bool) {
	forms := []string{filepath.ToSlash(xdg.Resolve(raw, cwd)), filepath.ToSlash(filepath.Clean(raw))}

	if cwd != "" {
		if rel, err := filepath.Rel(cwd, xdg.Resolve(raw, cwd)); err == nil && !strings.HasPrefix(rel, "..") {
			forms = append(forms, filepath.ToSlash(rel))
		}
	}

	for _, pattern := range g.patterns {
		for _, form := range forms {
			if ok, _ := doublestar.Match(pattern, form); ok {
				return pattern, true
			}
		}
	}

	return "", false
}

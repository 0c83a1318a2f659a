package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEmptyCommand is returned when trying to parse an empty command.
	ErrEmptyCommand = errors.New("empty command")
	// ErrParseFailed is returned when parsing fails.
	ErrParseFailed = errors.New("failed to parse command")
)

// ParseResult contains the results of parsing a shell command.
type ParseResult struct {
	Commands []Command   // All commands found, including nested ones
	Touches  []FileTouch // All paths the command would mutate
}

// BashParser parses shell commands using mvdan.cc/sh.
type BashParser struct {
	parser *syntax.Parser
}

// NewBashParser creates a new BashParser instance.
func NewBashParser() *BashParser {
	return &BashParser{
		parser: syntax.NewParser(),
	}
}

// Parse parses a command string and extracts commands and mutated paths.
func (p *BashParser) Parse(command string) (*ParseResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	file, err := p.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, errors.Wrap(ErrParseFailed, err.Error())
	}

	walker := &astWalker{}
	syntax.Walk(file, walker.visit)

	return &ParseResult{
		Commands: walker.commands,
		Touches:  walker.touches,
	}, nil
}

// HasCommand checks if the parse result contains a command with the given name.
func (r *ParseResult) HasCommand(name string) bool {
	for _, cmd := range r.Commands {
		if cmd.Name == name {
			return true
		}
	}

	return false
}

// TouchedPaths returns the distinct mutated paths in order of appearance.
func (r *ParseResult) TouchedPaths() []string {
	seen := make(map[string]struct{}, len(r.Touches))
	out := make([]string, 0, len(r.Touches))

	for _, t := range r.Touches {
		if _, ok := seen[t.Path]; ok {
			continue
		}

		seen[t.Path] = struct{}{}
		out = append(out, t.Path)
	}

	return out
}

// Package parser extracts commands and the paths they mutate from shell
// command strings, using mvdan.cc/sh.
package parser

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Location represents position in source code.
type Location struct {
	Line   uint
	Column uint
}

// Command represents a parsed command with metadata.
type Command struct {
	Name     string   // Command name (e.g., "rm")
	Args     []string // Command arguments
	Location Location // Position in source
}

// String returns a string representation of the command.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}

// Operands returns the arguments that are not flags. Everything after "--"
// is an operand.
func (c *Command) Operands() []string {
	out := make([]string, 0, len(c.Args))
	endOfFlags := false

	for _, arg := range c.Args {
		switch {
		case endOfFlags:
			out = append(out, arg)
		case arg == "--":
			endOfFlags = true
		case strings.HasPrefix(arg, "-") && arg != "-":
		default:
			out = append(out, arg)
		}
	}

	return out
}

// wordToString converts syntax.Word to string, keeping literal and quoted
// parts. Expansions are dropped because their value is unknown statically.
func wordToString(word *syntax.Word) string {
	if word == nil {
		return ""
	}

	var result strings.Builder

	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			result.WriteString(p.Value)
		case *syntax.SglQuoted:
			result.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dqPart := range p.Parts {
				if lit, ok := dqPart.(*syntax.Lit); ok {
					result.WriteString(lit.Value)
				}
			}
		}
	}

	return result.String()
}

// wordsToStrings converts a slice of syntax.Word to string slice.
func wordsToStrings(words []*syntax.Word) []string {
	result := make([]string, 0, len(words))

	for _, word := range words {
		if s := wordToString(word); s != "" {
			result = append(result, s)
		}
	}

	return result
}

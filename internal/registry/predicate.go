package registry

import (
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Predicate narrows the events a gate is evaluated for.
type Predicate func(*event.Event) bool

// ToolNameIn matches events whose tool name is one of names (case-insensitive).
func ToolNameIn(names ...string) Predicate {
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	return func(ev *event.Event) bool {
		return slices.Contains(lowered, strings.ToLower(ev.ToolName))
	}
}

// ToolNameMatches matches tool names against a regular expression.
func ToolNameMatches(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	return func(ev *event.Event) bool {
		return re.MatchString(ev.ToolName)
	}, nil
}

// PathMatches matches events whose tool path matches any doublestar pattern.
func PathMatches(patterns ...string) Predicate {
	return func(ev *event.Event) bool {
		path := ev.Path()
		if path == "" {
			return false
		}

		for _, p := range patterns {
			if ok, _ := doublestar.PathMatch(p, path); ok {
				return true
			}
		}

		return false
	}
}

// And matches when all predicates match.
func And(predicates ...Predicate) Predicate {
	return func(ev *event.Event) bool {
		for _, p := range predicates {
			if !p(ev) {
				return false
			}
		}

		return true
	}
}

// Or matches when any predicate matches.
func Or(predicates ...Predicate) Predicate {
	return func(ev *event.Event) bool {
		for _, p := range predicates {
			if p(ev) {
				return true
			}
		}

		return false
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(ev *event.Event) bool {
		return !p(ev)
	}
}

package gates

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/google/cel-go/cel"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// interruptCheckFrequency lets a cancelled context stop long comprehensions.
const interruptCheckFrequency = 100

var (
	// ErrNoRules is returned when a cel gate has no rules.
	ErrNoRules = errors.New("at least one rule is required")

	// ErrRuleCompile is returned when a rule expression does not compile
	// to a boolean.
	ErrRuleCompile = errors.New("rule does not compile")
)

// compiledRule is a rule with its checked program.
type compiledRule struct {
	name     string
	expr     string
	decision gate.Decision
	message  string
	context  string
	stop     string
	program  cel.Program
}

// CEL evaluates ordered boolean expressions; the first match decides.
//
// Expressions see three variables: `event` (the normalized event map),
// `session` (id, cwd, transcript_path) and `task` (the active task or null,
// looked up only when an expression reads it).
type CEL struct {
	rules []compiledRule
	log   logger.Logger
}

// NewCELEnv returns the environment rule expressions are checked against.
func NewCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("event", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("session", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("task", cel.DynType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating CEL environment")
	}

	return env, nil
}

// NewCEL compiles every rule. Any compile failure is returned, naming the rule.
func NewCEL(opts config.CELOptions, log logger.Logger) (*CEL, error) {
	if len(opts.Rules) == 0 {
		return nil, ErrNoRules
	}

	env, err := NewCELEnv()
	if err != nil {
		return nil, err
	}

	rules := make([]compiledRule, 0, len(opts.Rules))

	for i, r := range opts.Rules {
		name := r.Name
		if name == "" {
			name = "rule-" + strconv.Itoa(i+1)
		}

		decision, err := gate.ParseDecision(r.Decision)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q", name)
		}

		program, err := compile(env, r.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q", name)
		}

		rules = append(rules, compiledRule{
			name:     name,
			expr:     r.Expr,
			decision: decision,
			message:  r.Message,
			context:  r.Context,
			stop:     r.StopReason,
			program:  program,
		})
	}

	return &CEL{rules: rules, log: log}, nil
}

func compile(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.WithSecondaryError(ErrRuleCompile, issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, errors.Wrapf(ErrRuleCompile, "%q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast, cel.InterruptCheckFrequency(interruptCheckFrequency))
	if err != nil {
		return nil, errors.WithSecondaryError(ErrRuleCompile, err)
	}

	return program, nil
}

// Evaluate runs the rules in order. An evaluation error stops the gate.
func (g *CEL) Evaluate(ctx context.Context, ev *event.Event, state session.State) (*gate.Verdict, error) {
	vars := map[string]any{
		"event":   ev.AsMap(),
		"session": sessionMap(state),
		"task": func() any {
			if state == nil {
				return nil
			}

			task, err := state.ActiveTask(ctx)
			if err != nil {
				g.log.Debug("active task lookup failed", "error", err)

				return nil
			}

			if task == nil {
				return nil
			}

			return taskMap(task)
		},
	}

	for _, r := range g.rules {
		out, _, err := r.program.ContextEval(ctx, vars)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q", r.name)
		}

		matched, ok := out.Value().(bool)
		if !ok || !matched {
			continue
		}

		g.log.Debug("rule matched", "rule", r.name)

		v := gate.New(r.decision, r.message).WithMetadata(MetadataRule, r.name)
		if r.context != "" {
			v = v.WithContext(r.context)
		}

		if r.stop != "" {
			v.Stop = &gate.StopRequest{Reason: r.stop}
		}

		return v, nil
	}

	return gate.Allow(), nil
}

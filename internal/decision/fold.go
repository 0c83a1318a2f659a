package decision

import (
	"maps"
	"slices"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

// Fold merges one verdict into the aggregate and returns the new aggregate
// together with the metadata keys the verdict overwrote. The input aggregate
// is not modified.
//
// Rules: decision by precedence (deny > ask > warn > allow); user message
// first non-empty wins, later ones are kept in metadata; agent context
// accumulates; metadata is shallow-merged with the later key winning; the
// first stop request wins on stop-class kinds and is ignored elsewhere.
func Fold(agg Aggregate, name string, v *gate.Verdict) (Aggregate, []string) {
	out := agg.clone()

	if v == nil {
		v = gate.Allow()
	}

	out.Gates = append(out.Gates, GateOutcome{Name: name, Decision: v.Decision})

	if v.Decision > out.Decision {
		out.Decision = v.Decision
		out.Reason = v.UserMessage
	} else if v.Decision == out.Decision && out.Reason == "" && v.Decision != gate.DecisionAllow {
		out.Reason = v.UserMessage
	}

	if v.UserMessage != "" {
		if out.UserMessage == "" {
			out.UserMessage = v.UserMessage
		} else {
			out.appendAdditionalMessage(v.UserMessage)
		}
	}

	if v.AgentContext != "" {
		if out.AgentContext == "" {
			out.AgentContext = v.AgentContext
		} else {
			out.AgentContext += ContextSeparator + v.AgentContext
		}
	}

	collisions := out.mergeMetadata(v.Metadata)

	if v.Stop != nil && out.Stop != nil && !out.Stop.Block {
		out.Stop = &StopDecision{
			Block:          true,
			Reason:         v.Stop.Reason,
			UserStopReason: v.Stop.UserStopReason,
		}
	}

	return out, collisions
}

func (a Aggregate) clone() Aggregate {
	c := a
	c.Metadata = maps.Clone(a.Metadata)
	c.Gates = slices.Clone(a.Gates)

	if msgs := a.AdditionalMessages(); msgs != nil {
		c.Metadata[MetadataAdditionalMessages] = slices.Clone(msgs)
	}

	if a.Stop != nil {
		stop := *a.Stop
		c.Stop = &stop
	}

	return c
}

func (a *Aggregate) appendAdditionalMessage(msg string) {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any, 1)
	}

	a.Metadata[MetadataAdditionalMessages] = append(a.AdditionalMessages(), msg)
}

func (a *Aggregate) mergeMetadata(src map[string]any) []string {
	if len(src) == 0 {
		return nil
	}

	if a.Metadata == nil {
		a.Metadata = make(map[string]any, len(src))
	}

	var collisions []string

	for _, key := range slices.Sorted(maps.Keys(src)) {
		if key == MetadataAdditionalMessages {
			continue
		}

		if _, exists := a.Metadata[key]; exists {
			collisions = append(collisions, key)
		}

		a.Metadata[key] = src[key]
	}

	return collisions
}

// Accumulator folds verdicts for a single dispatch and logs side effects of
// the merge. It is not safe for concurrent use; callers fold after all gate
// results are collected.
type Accumulator struct {
	agg    Aggregate
	logger logger.Logger
}

// NewAccumulator creates an accumulator for an event kind.
func NewAccumulator(agg Aggregate, log logger.Logger) *Accumulator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Accumulator{agg: agg, logger: log}
}

// Add folds one gate verdict.
func (a *Accumulator) Add(name string, v *gate.Verdict) {
	if v != nil && v.Stop != nil && !a.agg.Kind.IsStopClass() {
		a.logger.Debug("ignoring stop request on non stop-class event",
			"gate", name,
			"kind", a.agg.Kind.String(),
		)
	}

	var collisions []string

	a.agg, collisions = Fold(a.agg, name, v)

	for _, key := range collisions {
		a.logger.Info("metadata key overwritten",
			"gate", name,
			"key", key,
		)
	}
}

// Result returns the aggregate folded so far.
func (a *Accumulator) Result() Aggregate {
	return a.agg.clone()
}

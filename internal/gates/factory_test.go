package gates_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

var _ = Describe("Factory", func() {
	var factory *gates.Factory

	BeforeEach(func() {
		factory = gates.NewFactory(gates.Deps{})
	})

	It("should know every built-in type", func() {
		for _, t := range config.GateTypes() {
			Expect(factory.Has(t)).To(BeTrue(), t)
		}

		Expect(factory.Has("lint")).To(BeFalse())
	})

	DescribeTable("building built-in gates",
		func(cfg config.GateConfig) {
			g, err := factory.Build(&cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(g).NotTo(BeNil())
		},
		Entry("protected-paths", config.GateConfig{
			Name: "pp", Type: config.GateTypeProtectedPaths,
			Options: map[string]any{"patterns": []any{"/etc/**"}, "decision": "ask"},
		}),
		Entry("cel", config.GateConfig{
			Name: "policy", Type: config.GateTypeCEL,
			Options: map[string]any{"rules": []any{
				map[string]any{"expr": `event.tool_name == "Bash"`, "decision": "warn"},
			}},
		}),
		Entry("command", config.GateConfig{
			Name: "ext", Type: config.GateTypeCommand,
			Options: map[string]any{"command": "sh", "args": []any{"-c", "true"}},
		}),
		Entry("active-task", config.GateConfig{Name: "task", Type: config.GateTypeActiveTask}),
		Entry("task-closure", config.GateConfig{Name: "closure", Type: config.GateTypeTaskClosure}),
		Entry("context", config.GateConfig{
			Name: "ctx", Type: config.GateTypeContext,
			Options: map[string]any{"text": "hello"},
		}),
	)

	It("should reject unknown types", func() {
		_, err := factory.Build(&config.GateConfig{Name: "x", Type: "lint"})
		Expect(errors.Is(err, gates.ErrUnknownGateType)).To(BeTrue())
	})

	It("should name the gate in option errors", func() {
		_, err := factory.Build(&config.GateConfig{Name: "pp", Type: config.GateTypeProtectedPaths})
		Expect(errors.Is(err, gates.ErrNoPatterns)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`gate "pp"`))
	})

	It("should accept custom builders", func() {
		factory.Add("always-ask", func(*config.GateConfig, gates.Deps) (gate.Gate, error) {
			return gate.Func(func(context.Context, *event.Event, session.State) (*gate.Verdict, error) {
				return gate.Ask("sure?"), nil
			}), nil
		})

		g, err := factory.Build(&config.GateConfig{Name: "confirm", Type: "always-ask"})
		Expect(err).NotTo(HaveOccurred())

		v, err := g.Evaluate(context.Background(), bashEvent("ls"), session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionAsk))
	})
})

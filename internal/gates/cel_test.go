package gates_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

var _ = Describe("CEL", func() {
	var (
		ctx   context.Context
		ctrl  *gomock.Controller
		tasks *session.MockTaskSource
		state *session.Snapshot
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		tasks = session.NewMockTaskSource(ctrl)
		state = session.NewSnapshot("sess-1", "/repo", session.WithTaskSource(tasks))
	})

	build := func(rules ...config.CELRule) *gates.CEL {
		g, err := gates.NewCEL(config.CELOptions{Rules: rules}, logger.NewNoOpLogger())
		Expect(err).NotTo(HaveOccurred())

		return g
	}

	It("should return the first matching rule", func() {
		g := build(
			config.CELRule{Name: "curl", Expr: `event.command.contains("curl")`, Decision: "ask", Message: "network access"},
			config.CELRule{Name: "any-bash", Expr: `event.tool_name == "Bash"`, Decision: "warn", Message: "shell"},
		)

		v, err := g.Evaluate(ctx, bashEvent("curl https://example.com"), state)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionAsk))
		Expect(v.UserMessage).To(Equal("network access"))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataRule, "curl"))

		v, err = g.Evaluate(ctx, bashEvent("ls"), state)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionWarn))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataRule, "any-bash"))
	})

	It("should allow when nothing matches", func() {
		g := build(config.CELRule{Expr: `event.tool_name == "Write"`, Decision: "deny"})

		v, err := g.Evaluate(ctx, bashEvent("ls"), state)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionAllow))
	})

	It("should expose session fields and attach context", func() {
		g := build(config.CELRule{
			Expr:     `session.id == "sess-1" && event.kind == "user-input"`,
			Decision: "allow",
			Context:  "Remember the style guide.",
		})

		v, err := g.Evaluate(ctx, &event.Event{Kind: event.KindUserInput, SessionID: "sess-1"}, state)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionAllow))
		Expect(v.AgentContext).To(Equal("Remember the style guide."))
	})

	It("should look up the task only when a rule reads it", func() {
		g := build(
			config.CELRule{Name: "write", Expr: `event.tool_name == "Write"`, Decision: "warn"},
			config.CELRule{Name: "no-task", Expr: `task == null`, Decision: "warn", Message: "no task"},
		)

		tasks.EXPECT().ActiveTask(gomock.Any(), "sess-1").Return(nil, nil).Times(1)

		v, err := g.Evaluate(ctx, bashEvent("ls"), state)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.UserMessage).To(Equal("no task"))
	})

	It("should see open checklist items and request a stop block", func() {
		g := build(config.CELRule{
			Expr:       `task != null && task.open_items > 0`,
			Decision:   "allow",
			StopReason: "finish the checklist",
		})

		tasks.EXPECT().ActiveTask(gomock.Any(), "sess-1").
			Return(&session.Task{ID: "T-1", ChecklistTotal: 3, ChecklistDone: 1}, nil)

		v, err := g.Evaluate(ctx, &event.Event{Kind: event.KindAgentResponseAfter, SessionID: "sess-1"}, state)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Stop).NotTo(BeNil())
		Expect(v.Stop.Reason).To(Equal("finish the checklist"))
	})

	It("should treat an unavailable store as no task", func() {
		g := build(config.CELRule{Expr: `task == null`, Decision: "warn"})

		v, err := g.Evaluate(ctx, bashEvent("ls"), session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionWarn))
	})

	It("should fail on evaluation errors", func() {
		g := build(config.CELRule{Name: "strict", Expr: `event.tool_input.missing == "x"`, Decision: "deny"})

		_, err := g.Evaluate(ctx, bashEvent("ls"), state)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`rule "strict"`))
	})

	DescribeTable("invalid rules",
		func(rules []config.CELRule, target error) {
			_, err := gates.NewCEL(config.CELOptions{Rules: rules}, logger.NewNoOpLogger())
			Expect(errors.Is(err, target)).To(BeTrue(), "got %v", err)
		},
		Entry("no rules", []config.CELRule(nil), gates.ErrNoRules),
		Entry("syntax error", []config.CELRule{{Expr: `event.tool_name ==`, Decision: "deny"}}, gates.ErrRuleCompile),
		Entry("non-bool", []config.CELRule{{Expr: `"deny"`, Decision: "deny"}}, gates.ErrRuleCompile),
		Entry("unknown variable", []config.CELRule{{Expr: `request.id == "x"`, Decision: "deny"}}, gates.ErrRuleCompile),
		Entry("bad decision", []config.CELRule{{Expr: `true`, Decision: "block"}}, gate.ErrUnknownDecision),
	)
})

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

var _ = Describe("task gates", func() {
	var (
		ctx   context.Context
		ctrl  *gomock.Controller
		state *session.MockState
		log   logger.Logger
		task  *session.Task
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		state = session.NewMockState(ctrl)
		log = logger.NewNoOpLogger()
		task = &session.Task{ID: "T-7", Title: "Ship release", Status: "active", ChecklistTotal: 4, ChecklistDone: 2}
	})

	Describe("ActiveTask", func() {
		It("should describe the active task as agent context", func() {
			g, err := gates.NewActiveTask(config.ActiveTaskOptions{}, log)
			Expect(err).NotTo(HaveOccurred())

			state.EXPECT().ActiveTask(gomock.Any()).Return(task, nil)

			v, err := g.Evaluate(ctx, bashEvent("ls"), state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionAllow))
			Expect(v.AgentContext).To(Equal("Active task T-7: Ship release [active, 2/4 checklist items done]"))
			Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataActiveTask, "T-7"))
		})

		It("should warn by default when there is no task", func() {
			g, err := gates.NewActiveTask(config.ActiveTaskOptions{}, log)
			Expect(err).NotTo(HaveOccurred())

			state.EXPECT().ActiveTask(gomock.Any()).Return(nil, nil)

			v, err := g.Evaluate(ctx, bashEvent("ls"), state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionWarn))
			Expect(v.UserMessage).To(ContainSubstring("No active task"))
		})

		It("should apply the configured decision when there is no task", func() {
			g, err := gates.NewActiveTask(config.ActiveTaskOptions{Missing: "deny", Message: "Start a task first"}, log)
			Expect(err).NotTo(HaveOccurred())

			state.EXPECT().ActiveTask(gomock.Any()).Return(nil, nil)

			v, err := g.Evaluate(ctx, bashEvent("ls"), state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionDeny))
			Expect(v.UserMessage).To(Equal("Start a task first"))
		})

		It("should only warn when the store is unavailable, even if configured to deny", func() {
			g, err := gates.NewActiveTask(config.ActiveTaskOptions{Missing: "deny"}, log)
			Expect(err).NotTo(HaveOccurred())

			state.EXPECT().ActiveTask(gomock.Any()).
				Return(nil, errors.Wrap(session.ErrStoreUnavailable, "locked"))

			v, err := g.Evaluate(ctx, bashEvent("ls"), state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionWarn))
		})

		It("should reject an unknown decision", func() {
			_, err := gates.NewActiveTask(config.ActiveTaskOptions{Missing: "sometimes"}, log)
			Expect(errors.Is(err, gate.ErrUnknownDecision)).To(BeTrue())
		})
	})

	Describe("TaskClosure", func() {
		var (
			g    *gates.TaskClosure
			stop *event.Event
		)

		BeforeEach(func() {
			g = gates.NewTaskClosure(config.TaskClosureOptions{}, log)
			stop = &event.Event{Kind: event.KindAgentResponseAfter, Host: "claude", SessionID: "sess-1"}
		})

		It("should ignore non-stop events without a lookup", func() {
			v, err := g.Evaluate(ctx, bashEvent("ls"), state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionAllow))
			Expect(v.Stop).To(BeNil())
		})

		It("should block the stop while checklist items are open", func() {
			state.EXPECT().ActiveTask(gomock.Any()).Return(task, nil)

			v, err := g.Evaluate(ctx, stop, state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionAllow))
			Expect(v.Stop).NotTo(BeNil())
			Expect(v.Stop.Reason).To(ContainSubstring("Task T-7 still has 2 open checklist items"))
			Expect(v.Stop.UserStopReason).To(Equal("Stop blocked: task T-7 has 2 open checklist items"))
		})

		It("should warn instead of blocking again when the stop hook is active", func() {
			stop.StopHookActive = true
			state.EXPECT().ActiveTask(gomock.Any()).Return(task, nil)

			v, err := g.Evaluate(ctx, stop, state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionWarn))
			Expect(v.Stop).To(BeNil())
		})

		It("should allow when the checklist is complete or there is no task", func() {
			done := *task
			done.ChecklistDone = done.ChecklistTotal

			state.EXPECT().ActiveTask(gomock.Any()).Return(&done, nil)
			state.EXPECT().ActiveTask(gomock.Any()).Return(nil, nil)

			for range 2 {
				v, err := g.Evaluate(ctx, stop, state)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.Stop).To(BeNil())
				Expect(v.Decision).To(Equal(gate.DecisionAllow))
			}
		})

		It("should warn when the store is unavailable", func() {
			state.EXPECT().ActiveTask(gomock.Any()).Return(nil, session.ErrStoreUnavailable)

			v, err := g.Evaluate(ctx, stop, state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionWarn))
			Expect(v.Stop).To(BeNil())
		})

		It("should use configured reasons", func() {
			g = gates.NewTaskClosure(config.TaskClosureOptions{
				Reason:     "Close {title} ({open} left)",
				UserReason: "{task} is still open",
			}, log)

			state.EXPECT().ActiveTask(gomock.Any()).Return(task, nil)

			v, err := g.Evaluate(ctx, stop, state)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Stop.Reason).To(Equal("Close Ship release (2 left)"))
			Expect(v.Stop.UserStopReason).To(Equal("T-7 is still open"))
		})
	})
})

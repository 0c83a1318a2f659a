package gates_test

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/hookrouter/internal/exec"
	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

var _ = Describe("Command", func() {
	var (
		ctx context.Context
		ev  *event.Event
	)

	BeforeEach(func() {
		ctx = context.Background()
		ev = bashEvent("git push --force")
		ev.Cwd = GinkgoT().TempDir()
	})

	script := func(body string, env map[string]string) *gates.Command {
		g, err := gates.NewCommand(
			config.CommandOptions{Command: "sh", Args: []string{"-c", body}, Env: env},
			nil, nil, logger.NewNoOpLogger(),
		)
		Expect(err).NotTo(HaveOccurred())

		return g
	}

	It("should parse the printed verdict", func() {
		g := script(`cat >/dev/null; echo '{"decision":"deny","user_message":"no force pushes"}'`, nil)

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionDeny))
		Expect(v.UserMessage).To(Equal("no force pushes"))
	})

	It("should send the event on stdin", func() {
		g := script(`grep -q '"command":"git push --force"' && echo '{"decision":"warn","user_message":"saw it"}'`, nil)

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.UserMessage).To(Equal("saw it"))
	})

	It("should pass configured environment", func() {
		g := script(`cat >/dev/null; printf '{"decision":"warn","user_message":"%s"}' "$GATE_MODE"`, map[string]string{"GATE_MODE": "strict"})

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.UserMessage).To(Equal("strict"))
	})

	It("should allow on empty output", func() {
		g := script(`cat >/dev/null`, nil)

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionAllow))
	})

	It("should warn on non-zero exit", func() {
		g := script(`cat >/dev/null; echo 'policy server down' >&2; exit 3`, nil)

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionWarn))
		Expect(v.UserMessage).To(ContainSubstring("exit code 3"))
		Expect(v.UserMessage).To(ContainSubstring("policy server down"))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataExitCode, 3))
	})

	It("should warn on unreadable output", func() {
		g := script(`cat >/dev/null; echo 'deny please'`, nil)

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionWarn))
		Expect(v.UserMessage).To(ContainSubstring("unreadable verdict"))
	})

	It("should warn when the program is missing", func() {
		g, err := gates.NewCommand(config.CommandOptions{Command: "no-such-decider-xyz"}, nil, nil, logger.NewNoOpLogger())
		Expect(err).NotTo(HaveOccurred())

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Decision).To(Equal(gate.DecisionWarn))
		Expect(v.UserMessage).To(ContainSubstring("not available"))
	})

	It("should fail when the context deadline passes", func() {
		g := script(`sleep 5`, nil)

		tctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := g.Evaluate(tctx, ev, session.Empty())

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		Expect(time.Since(start)).To(BeNumerically("<", 3*time.Second))
	})

	It("should reject an empty command", func() {
		_, err := gates.NewCommand(config.CommandOptions{}, nil, nil, logger.NewNoOpLogger())
		Expect(errors.Is(err, gates.ErrNoCommand)).To(BeTrue())
	})

	Context("with injected collaborators", func() {
		var (
			ctrl   *gomock.Controller
			tools  *exec.MockToolChecker
			runner *exec.MockCommandRunner
			dirs   []string
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			tools = exec.NewMockToolChecker(ctrl)
			runner = exec.NewMockCommandRunner(ctrl)
			dirs = nil
		})

		It("should run in the event cwd and decode the verdict", func() {
			factory := func(dir string, _ []string) exec.CommandRunner {
				dirs = append(dirs, dir)

				return runner
			}

			g, err := gates.NewCommand(config.CommandOptions{Command: "decider"}, tools, factory, logger.NewNoOpLogger())
			Expect(err).NotTo(HaveOccurred())

			tools.EXPECT().RequireTool("decider").Return(nil)
			runner.EXPECT().RunWithStdin(gomock.Any(), gomock.Any(), "decider").
				Return(&exec.CommandResult{Stdout: `{"decision":"ask","user_message":"confirm push"}`})

			v, err := g.Evaluate(ctx, ev, session.Empty())
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Decision).To(Equal(gate.DecisionAsk))
			Expect(dirs).To(Equal([]string{ev.Cwd}))
		})
	})
})

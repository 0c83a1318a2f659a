package gates_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

var _ = Describe("Context", func() {
	var (
		ctx context.Context
		ev  *event.Event
	)

	BeforeEach(func() {
		ctx = context.Background()
		ev = &event.Event{Kind: event.KindSessionStart, SessionID: "sess-1", Cwd: GinkgoT().TempDir()}
	})

	evaluate := func(opts config.ContextOptions) *gate.Verdict {
		g, err := gates.NewContext(opts, logger.NewNoOpLogger())
		Expect(err).NotTo(HaveOccurred())

		v, err := g.Evaluate(ctx, ev, session.Empty())
		Expect(err).NotTo(HaveOccurred())

		return v
	}

	It("should inject static text", func() {
		v := evaluate(config.ContextOptions{Text: "  Use British spelling.\n"})

		Expect(v.Decision).To(Equal(gate.DecisionAllow))
		Expect(v.AgentContext).To(Equal("Use British spelling."))
	})

	It("should append a file relative to the event cwd", func() {
		Expect(os.WriteFile(filepath.Join(ev.Cwd, "NOTES.md"), []byte("# Notes\nkeep it short\n"), 0o600)).To(Succeed())

		v := evaluate(config.ContextOptions{Text: "House rules:", File: "NOTES.md"})

		Expect(v.AgentContext).To(Equal("House rules:\n\n# Notes\nkeep it short"))
	})

	It("should cap file content", func() {
		Expect(os.WriteFile(filepath.Join(ev.Cwd, "big.txt"), []byte(strings.Repeat("x", 100)), 0o600)).To(Succeed())

		v := evaluate(config.ContextOptions{File: "big.txt", MaxBytes: 10})

		Expect(v.AgentContext).To(Equal(strings.Repeat("x", 10) + "\n[truncated]"))
	})

	It("should contribute nothing for a missing file", func() {
		v := evaluate(config.ContextOptions{File: "absent.md"})

		Expect(v.Decision).To(Equal(gate.DecisionAllow))
		Expect(v.AgentContext).To(BeEmpty())
	})

	It("should fail when the file cannot be read", func() {
		g, err := gates.NewContext(config.ContextOptions{File: "."}, logger.NewNoOpLogger())
		Expect(err).NotTo(HaveOccurred())

		_, err = g.Evaluate(ctx, ev, session.Empty())
		Expect(err).To(HaveOccurred())
	})

	It("should require a source", func() {
		_, err := gates.NewContext(config.ContextOptions{Text: "   "}, logger.NewNoOpLogger())
		Expect(errors.Is(err, gates.ErrNoContextSource)).To(BeTrue())
	})
})

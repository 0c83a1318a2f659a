package registry_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

func TestRegistry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Registry Suite")
}

func allowGate() gate.Gate {
	return gate.Func(func(context.Context, *event.Event, session.State) (*gate.Verdict, error) {
		return gate.Allow(), nil
	})
}

func reg(name string) registry.Registration {
	return registry.Registration{Name: name, Gate: allowGate()}
}

func resolvedNames(regs []registry.Registration) []string {
	out := make([]string, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.Name)
	}

	return out
}

var _ = Describe("Registry", func() {
	var r *registry.Registry

	BeforeEach(func() {
		r = registry.New()
	})

	Describe("Register", func() {
		It("should reject duplicates, empty names and nil gates", func() {
			Expect(r.Register(reg("a"))).To(Succeed())
			Expect(r.Register(reg("a"))).To(MatchError(registry.ErrDuplicateGate))
			Expect(r.Register(registry.Registration{Gate: allowGate()})).To(MatchError(registry.ErrEmptyName))
			Expect(r.Register(registry.Registration{Name: "b"})).To(MatchError(registry.ErrNilGate))
			Expect(r.Count()).To(Equal(1))
		})

		It("should keep registration order", func() {
			for _, n := range []string{"z", "a", "m"} {
				Expect(r.Register(reg(n))).To(Succeed())
			}

			Expect(resolvedNames(r.Registrations())).To(Equal([]string{"z", "a", "m"}))
		})
	})

	Describe("Activate", func() {
		It("should reject duplicate names for one kind", func() {
			Expect(r.Activate(event.KindBeforeTool, "a", "a")).To(MatchError(registry.ErrDuplicateActivation))
		})

		It("should reject kinds outside the closed set", func() {
			err := r.Activate(event.KindUnknown, "a")
			Expect(errors.Is(err, event.ErrUnknownKind)).To(BeTrue())
		})

		It("should replace the previous list", func() {
			Expect(r.Register(reg("a"))).To(Succeed())
			Expect(r.Register(reg("b"))).To(Succeed())
			Expect(r.Activate(event.KindBeforeTool, "a", "b")).To(Succeed())
			Expect(r.Activate(event.KindBeforeTool, "b")).To(Succeed())

			Expect(resolvedNames(r.Resolve(event.KindBeforeTool))).To(Equal([]string{"b"}))
		})
	})

	Describe("Resolve", func() {
		It("should return the intersection in activation order", func() {
			for _, n := range []string{"first", "second", "third"} {
				Expect(r.Register(reg(n))).To(Succeed())
			}

			Expect(r.Activate(event.KindBeforeTool, "third", "ghost", "first")).To(Succeed())

			Expect(resolvedNames(r.Resolve(event.KindBeforeTool))).To(Equal([]string{"third", "first"}))
			Expect(r.Resolve(event.KindAfterTool)).To(BeEmpty())
		})
	})

	Describe("ListOrphaned", func() {
		It("should report both halves of the triad", func() {
			Expect(r.Register(reg("implemented-only"))).To(Succeed())
			Expect(r.Register(reg("wired"))).To(Succeed())
			Expect(r.Activate(event.KindBeforeTool, "wired", "activated-only")).To(Succeed())
			Expect(r.Activate(event.KindSessionEnd, "activated-only")).To(Succeed())

			Expect(r.ListOrphaned()).To(Equal([]registry.Orphan{
				{
					Name:   "activated-only",
					Reason: registry.OrphanNotRegistered,
					Kinds:  []event.Kind{event.KindSessionEnd, event.KindBeforeTool},
				},
				{Name: "implemented-only", Reason: registry.OrphanNotActivated},
			}))
		})

		It("should be empty for a consistent registry", func() {
			Expect(r.Register(reg("a"))).To(Succeed())
			Expect(r.Activate(event.KindUserInput, "a")).To(Succeed())

			Expect(r.ListOrphaned()).To(BeEmpty())
		})
	})

	Describe("Seal", func() {
		It("should reject further mutation", func() {
			r.Seal()

			Expect(r.Register(reg("a"))).To(MatchError(registry.ErrSealed))
			Expect(r.Activate(event.KindBeforeTool, "a")).To(MatchError(registry.ErrSealed))
		})
	})
})

var _ = Describe("Predicates", func() {
	ev := &event.Event{ToolName: "Bash", ToolInput: map[string]any{"file_path": "/etc/hosts"}}

	It("should match tool names case-insensitively", func() {
		Expect(registry.ToolNameIn("bash")(ev)).To(BeTrue())
		Expect(registry.ToolNameIn("Write")(ev)).To(BeFalse())
	})

	It("should match tool names by regexp", func() {
		p, err := registry.ToolNameMatches("^(Bash|Write)$")
		Expect(err).NotTo(HaveOccurred())
		Expect(p(ev)).To(BeTrue())

		_, err = registry.ToolNameMatches("(")
		Expect(err).To(HaveOccurred())
	})

	It("should match paths with doublestar", func() {
		Expect(registry.PathMatches("/etc/**")(ev)).To(BeTrue())
		Expect(registry.PathMatches("/usr/**")(ev)).To(BeFalse())
	})

	It("should combine predicates", func() {
		Expect(registry.And(registry.ToolNameIn("Bash"), registry.PathMatches("/etc/**"))(ev)).To(BeTrue())
		Expect(registry.Or(registry.ToolNameIn("Write"), registry.Not(registry.PathMatches("/usr/**")))(ev)).To(BeTrue())
	})

	It("should treat a nil predicate as match-all", func() {
		Expect(reg("a").Matches(ev)).To(BeTrue())
	})
})

package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/pkg/config"
)

var _ = Describe("mergeGates", func() {
	It("returns nothing for empty layers", func() {
		Expect(mergeGates(nil, nil)).To(BeEmpty())
	})

	It("keeps first-appearance order", func() {
		merged := mergeGates(
			[]config.GateConfig{{Name: "a", Type: "cel"}, {Name: "b", Type: "cel"}},
			[]config.GateConfig{{Name: "c", Type: "context"}, {Name: "a", Mode: "async"}},
		)

		Expect(merged).To(HaveLen(3))
		Expect(merged[0].Name).To(Equal("a"))
		Expect(merged[0].Mode).To(Equal("async"))
		Expect(merged[0].Type).To(Equal("cel"))
		Expect(merged[2].Name).To(Equal("c"))
	})

	It("merges option keys", func() {
		merged := mergeGates(
			[]config.GateConfig{{Name: "ctx", Type: "context", Options: map[string]any{"text": "a", "file": "f"}}},
			[]config.GateConfig{{Name: "ctx", Options: map[string]any{"text": "b"}}},
		)

		Expect(merged[0].Options).To(Equal(map[string]any{"text": "b", "file": "f"}))
	})

	It("drops inherited settings when the type changes", func() {
		merged := mergeGates(
			[]config.GateConfig{{Name: "g", Type: "context", Options: map[string]any{"text": "a"}, Mode: "async"}},
			[]config.GateConfig{{Name: "g", Type: "cel"}},
		)

		Expect(merged[0].Type).To(Equal("cel"))
		Expect(merged[0].Options).To(BeNil())
		Expect(merged[0].Mode).To(BeEmpty())
	})

	It("leaves unnamed gates for validation", func() {
		merged := mergeGates(
			[]config.GateConfig{{Type: "cel"}},
			[]config.GateConfig{{Type: "context"}},
		)

		Expect(merged).To(HaveLen(2))
	})
})

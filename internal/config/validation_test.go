package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("Validator", func() {
	var v *Validator

	BeforeEach(func() {
		v = NewValidator()
	})

	It("accepts the defaults", func() {
		Expect(v.Validate(DefaultConfig())).To(Succeed())
	})

	It("rejects a nil config", func() {
		Expect(v.Validate(nil)).To(MatchError(ErrInvalidConfig))
	})

	It("rejects newer versions", func() {
		cfg := DefaultConfig()
		cfg.Version = config.CurrentConfigVersion + 1

		err := v.Validate(cfg)
		Expect(err).To(MatchError(ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring("1 error(s)"))
	})

	It("rejects negative max_concurrency", func() {
		cfg := DefaultConfig()
		cfg.Dispatch.MaxConcurrency = ptr(-1)

		Expect(v.Validate(cfg)).To(MatchError(ErrInvalidConfig))
	})

	DescribeTable("gate problems",
		func(g config.GateConfig) {
			cfg := DefaultConfig()
			cfg.Gates = append(cfg.Gates, g)

			Expect(v.Validate(cfg)).To(MatchError(ErrInvalidConfig))
		},
		Entry("missing name", config.GateConfig{Type: config.GateTypeCEL}),
		Entry("duplicate name", config.GateConfig{Name: config.DefaultProtectedGate, Type: config.GateTypeCEL}),
		Entry("unknown type", config.GateConfig{Name: "x", Type: "telepathy"}),
		Entry("bad mode", config.GateConfig{Name: "x", Type: config.GateTypeCEL, Mode: "background"}),
		Entry("negative timeout", config.GateConfig{Name: "x", Type: config.GateTypeCEL, Timeout: -1}),
		Entry("bad tool pattern", config.GateConfig{Name: "x", Type: config.GateTypeCEL, ToolPattern: "("}),
	)

	DescribeTable("activation problems",
		func(activation map[string][]string) {
			cfg := DefaultConfig()
			cfg.Activation = activation

			Expect(v.Validate(cfg)).To(MatchError(ErrInvalidConfig))
		},
		Entry("unknown kind", map[string][]string{"before-lunch": {"x"}}),
		Entry("empty name", map[string][]string{"before-tool": {""}}),
		Entry("listed twice", map[string][]string{"before-tool": {"x", "x"}}),
	)

	It("allows activations naming unregistered gates", func() {
		cfg := DefaultConfig()
		cfg.Activation["session-start"] = []string{"not-defined"}

		Expect(v.Validate(cfg)).To(Succeed())
	})

	It("counts every problem", func() {
		cfg := DefaultConfig()
		cfg.Gates = append(cfg.Gates, config.GateConfig{Name: "x", Type: "nope", Mode: "nope"})

		err := v.Validate(cfg)
		Expect(err.Error()).To(ContainSubstring("2 error(s)"))
	})

	It("reports a bad run mode with its own sentinel", func() {
		errs := v.validateGates([]config.GateConfig{{Name: "x", Type: config.GateTypeCEL, Mode: "later"}})
		Expect(errs).To(HaveLen(1))
		Expect(errs[0]).To(MatchError(gate.ErrUnknownRunMode))
	})

	Describe("hosts", func() {
		It("rejects unknown hosts", func() {
			cfg := DefaultConfig()
			cfg.Hosts = map[string]*config.HostConfig{"emacs": {}}

			Expect(v.Validate(cfg)).To(MatchError(ErrInvalidConfig))
		})

		It("rejects unknown kinds", func() {
			cfg := DefaultConfig()
			cfg.Hosts = map[string]*config.HostConfig{
				"claude": {ExitCodes: map[string]*config.ExitCodesConfig{"nap": {Warn: ptr(1)}}},
			}

			Expect(v.Validate(cfg)).To(MatchError(ErrInvalidConfig))
		})

		It("rejects exit codes outside the contract", func() {
			cfg := DefaultConfig()
			cfg.Hosts = map[string]*config.HostConfig{
				"claude": {ExitCodes: map[string]*config.ExitCodesConfig{"before-tool": {Deny: ptr(0)}}},
			}

			Expect(v.Validate(cfg)).To(MatchError(ErrInvalidConfig))
		})

		It("accepts a permitted override", func() {
			cfg := DefaultConfig()
			cfg.Hosts = map[string]*config.HostConfig{
				"gemini": {ExitCodes: map[string]*config.ExitCodesConfig{"before-tool": {Warn: ptr(1)}}},
			}

			Expect(v.Validate(cfg)).To(Succeed())

			overrides, err := ContractOverrides(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(overrides).To(HaveKey("gemini"))
		})
	})
})

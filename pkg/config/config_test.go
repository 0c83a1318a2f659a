package config_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

func ptr[T any](v T) *T {
	return &v
}

var _ = Describe("Duration", func() {
	It("should parse valid duration strings", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("1500ms"))).To(Succeed())
		Expect(d.ToDuration()).To(Equal(1500 * time.Millisecond))
		Expect(d.String()).To(Equal("1.5s"))

		text, err := d.MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(text)).To(Equal("1.5s"))
	})

	It("should reject invalid and negative durations", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("soon"))).NotTo(Succeed())

		err := d.UnmarshalText([]byte("-1s"))
		Expect(errors.Is(err, config.ErrNegativeDuration)).To(BeTrue())
	})
})

var _ = Describe("getters", func() {
	It("should apply defaults on nil sections", func() {
		var (
			dispatch  *config.DispatchConfig
			taskStore *config.TaskStoreConfig
			log       *config.LogConfig
			gate      *config.GateConfig
		)

		Expect(dispatch.IsSequential()).To(BeFalse())
		Expect(dispatch.GetMaxConcurrency()).To(Equal(config.DefaultMaxConcurrency))
		Expect(taskStore.IsEnabled()).To(BeTrue())
		Expect(log.IsDebug()).To(BeTrue())
		Expect(log.IsTrace()).To(BeFalse())
		Expect(gate.IsEnabled()).To(BeTrue())
	})

	It("should honour explicit values", func() {
		cfg := &config.Config{}
		cfg.GetDispatch().Sequential = ptr(true)
		cfg.GetDispatch().MaxConcurrency = ptr(0)
		cfg.GetTaskStore().Enabled = ptr(false)
		cfg.GetLog().Trace = ptr(true)

		Expect(cfg.Dispatch.IsSequential()).To(BeTrue())
		Expect(cfg.Dispatch.GetMaxConcurrency()).To(Equal(0))
		Expect(cfg.TaskStore.IsEnabled()).To(BeFalse())
		Expect(cfg.Log.IsTrace()).To(BeTrue())
	})

	It("should find gates by name", func() {
		cfg := &config.Config{Gates: []config.GateConfig{{Name: "a"}, {Name: "b", Type: "cel"}}}

		g, ok := cfg.Gate("b")
		Expect(ok).To(BeTrue())
		Expect(g.Type).To(Equal("cel"))

		_, ok = cfg.Gate("c")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("GateConfig.DecodeOptions", func() {
	It("should decode typed options", func() {
		g := &config.GateConfig{
			Name: "ctx",
			Options: map[string]any{
				"file":      "NOTES.md",
				"max_bytes": int64(1024),
			},
		}

		var opts config.ContextOptions
		Expect(g.DecodeOptions(&opts)).To(Succeed())
		Expect(opts.File).To(Equal("NOTES.md"))
		Expect(opts.MaxBytes).To(Equal(config.KB))
	})

	DescribeTable("should decode byte size strings",
		func(raw any, want config.ByteSize) {
			g := &config.GateConfig{Name: "ctx", Options: map[string]any{"text": "x", "max_bytes": raw}}

			var opts config.ContextOptions
			Expect(g.DecodeOptions(&opts)).To(Succeed())
			Expect(opts.MaxBytes).To(Equal(want))
		},
		Entry("plain number string", "512", config.ByteSize(512)),
		Entry("KB", "16KB", 16*config.KB),
		Entry("lowercase with space", "2 mib", 2*config.MB),
		Entry("bytes suffix", "100B", config.ByteSize(100)),
		Entry("integer", int64(2048), 2*config.KB),
	)

	It("should reject unknown byte size units", func() {
		g := &config.GateConfig{Name: "ctx", Options: map[string]any{"max_bytes": "3 parsecs"}}

		var opts config.ContextOptions
		err := g.DecodeOptions(&opts)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid byte size"))
	})

	It("should decode nested rule tables", func() {
		g := &config.GateConfig{
			Name: "policy",
			Options: map[string]any{
				"rules": []any{
					map[string]any{"expr": "event.tool_name == 'Bash'", "decision": "ask"},
				},
			},
		}

		var opts config.CELOptions
		Expect(g.DecodeOptions(&opts)).To(Succeed())
		Expect(opts.Rules).To(HaveLen(1))
		Expect(opts.Rules[0].Decision).To(Equal("ask"))
	})

	It("should reject unknown keys", func() {
		g := &config.GateConfig{Name: "pp", Options: map[string]any{"pattern": "/etc/**"}}

		var opts config.ProtectedPathsOptions
		err := g.DecodeOptions(&opts)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`gate "pp" options`))
	})

	It("should accept nil options", func() {
		g := &config.GateConfig{Name: "closure"}

		var opts config.TaskClosureOptions
		Expect(g.DecodeOptions(&opts)).To(Succeed())
	})
})

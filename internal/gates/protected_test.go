package gates_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/gates"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

var _ = Describe("ProtectedPaths", func() {
	var (
		ctx  context.Context
		opts config.ProtectedPathsOptions
		log  logger.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		log = logger.NewNoOpLogger()
		opts = config.ProtectedPathsOptions{Patterns: []string{"/etc/**", "**/*.pem"}}
	})

	check := func(opts config.ProtectedPathsOptions, tool string, input map[string]any) *gate.Verdict {
		g, err := gates.NewProtectedPaths(opts, log)
		Expect(err).NotTo(HaveOccurred())

		v, err := g.Evaluate(ctx, toolEvent(tool, input), session.Empty())
		Expect(err).NotTo(HaveOccurred())

		return v
	}

	It("should deny file tools on protected paths", func() {
		v := check(opts, "Write", map[string]any{"file_path": "/etc/hosts"})

		Expect(v.Decision).To(Equal(gate.DecisionDeny))
		Expect(v.UserMessage).To(ContainSubstring("/etc/hosts"))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataProtectedPath, "/etc/hosts"))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataPattern, "/etc/**"))
	})

	It("should resolve relative paths against the event cwd", func() {
		v := check(opts, "Edit", map[string]any{"file_path": "certs/server.pem"})

		Expect(v.Decision).To(Equal(gate.DecisionDeny))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataProtectedPath, "/repo/certs/server.pem"))
	})

	It("should allow unprotected paths", func() {
		v := check(opts, "Write", map[string]any{"file_path": "/repo/main.go"})

		Expect(v.Decision).To(Equal(gate.DecisionAllow))
	})

	It("should inspect mutating shell commands", func() {
		v := check(opts, "Bash", map[string]any{"command": "cd /tmp && rm -rf /etc/nginx"})

		Expect(v.Decision).To(Equal(gate.DecisionDeny))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataProtectedPath, "/etc/nginx"))
	})

	It("should inspect redirections", func() {
		v := check(opts, "run_shell_command", map[string]any{"command": "echo 127.0.0.1 >> /etc/hosts"})

		Expect(v.Decision).To(Equal(gate.DecisionDeny))
	})

	It("should ignore read-only shell commands", func() {
		v := check(opts, "Bash", map[string]any{"command": "cat /etc/passwd | grep root"})

		Expect(v.Decision).To(Equal(gate.DecisionAllow))
	})

	It("should ignore unparsable shell commands", func() {
		v := check(opts, "Bash", map[string]any{"command": "rm '/etc/unterminated"})

		Expect(v.Decision).To(Equal(gate.DecisionAllow))
	})

	It("should skip shell inspection when disabled", func() {
		off := false
		opts.Shell = &off

		v := check(opts, "Bash", map[string]any{"command": "rm /etc/passwd"})

		Expect(v.Decision).To(Equal(gate.DecisionAllow))
	})

	It("should apply the configured decision and message", func() {
		opts.Decision = "ask"
		opts.Message = "{path} is managed by the platform team"

		v := check(opts, "Write", map[string]any{"file_path": "/etc/motd"})

		Expect(v.Decision).To(Equal(gate.DecisionAsk))
		Expect(v.UserMessage).To(Equal("/etc/motd is managed by the platform team"))
	})

	It("should expand the path and pattern placeholders in messages", func() {
		opts.Message = "{path} matched {pattern}"

		v := check(opts, "Write", map[string]any{"file_path": "/etc/motd"})

		Expect(v.UserMessage).To(Equal("/etc/motd matched /etc/**"))
	})

	It("should expand home in patterns and paths", func() {
		home, err := os.UserHomeDir()
		Expect(err).NotTo(HaveOccurred())

		opts.Patterns = []string{"~/.ssh/**"}

		v := check(opts, "Write", map[string]any{"file_path": "~/.ssh/config"})

		Expect(v.Decision).To(Equal(gate.DecisionDeny))
		Expect(v.Metadata).To(HaveKeyWithValue(gates.MetadataProtectedPath, filepath.Join(home, ".ssh", "config")))
	})

	DescribeTable("invalid options",
		func(opts config.ProtectedPathsOptions, target error) {
			_, err := gates.NewProtectedPaths(opts, log)
			Expect(errors.Is(err, target)).To(BeTrue(), "got %v", err)
		},
		Entry("no patterns", config.ProtectedPathsOptions{}, gates.ErrNoPatterns),
		Entry("bad glob", config.ProtectedPathsOptions{Patterns: []string{"/etc/[a"}}, gates.ErrInvalidPattern),
		Entry("unknown decision", config.ProtectedPathsOptions{Patterns: []string{"/x"}, Decision: "maybe"}, gate.ErrUnknownDecision),
		Entry("allow decision", config.ProtectedPathsOptions{Patterns: []string{"/x"}, Decision: "allow"}, gate.ErrUnknownDecision),
	)
})

package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		w       *Writer
		homeDir string
		workDir string
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		w = NewWriter(xdg.ResolverFor(homeDir), workDir)
	})

	It("writes a file the loader reads back", func() {
		path := w.ProjectConfigPath()
		Expect(w.WriteFile(path, DefaultConfig(), false)).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(ConfigFileMode)))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("#:schema "))

		cfg, err := NewKoanfLoader(workDir, WithPaths(xdg.ResolverFor(homeDir))).Load(nil)
		Expect(err).NotTo(HaveOccurred())

		g, ok := cfg.Gate(config.DefaultProtectedGate)
		Expect(ok).To(BeTrue())
		Expect(g.Options).To(HaveKey("patterns"))
	})

	It("refuses to overwrite without force", func() {
		path := w.GlobalConfigPath()
		Expect(w.WriteFile(path, DefaultConfig(), false)).To(Succeed())
		Expect(w.WriteFile(path, DefaultConfig(), false)).To(MatchError(ErrConfigExists))
		Expect(w.WriteFile(path, DefaultConfig(), true)).To(Succeed())
		Expect(filepath.Dir(path)).To(BeADirectory())
	})

	It("rejects a nil config", func() {
		Expect(w.WriteFile(w.ProjectConfigPath(), nil, false)).To(MatchError(ErrInvalidConfig))
	})
})

package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("SlogAdapter", func() {
	var (
		buf *bytes.Buffer
		log *logger.SlogAdapter
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should prefix lines with a local timestamp", func() {
		log = logger.NewFileLoggerWithWriter(buf, true, false)
		log.Info("dispatch started")

		Expect(regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}[+-]\d{2}:\d{2} INFO dispatch started`).
			MatchString(buf.String())).To(BeTrue(), buf.String())
	})

	Context("with debug mode enabled", func() {
		BeforeEach(func() {
			log = logger.NewFileLoggerWithWriter(buf, true, false)
		})

		It("should log Info and Error messages", func() {
			log.Info("info line")
			log.Error("error line")

			Expect(buf.String()).To(ContainSubstring("INFO info line"))
			Expect(buf.String()).To(ContainSubstring("ERROR error line"))
		})

		It("should drop Debug messages", func() {
			log.Debug("debug line")

			Expect(buf.String()).To(BeEmpty())
		})
	})

	Context("with trace mode enabled", func() {
		It("should log Debug messages", func() {
			log = logger.NewFileLoggerWithWriter(buf, false, true)
			log.Debug("gate resolved", "gate", "protect-system")

			Expect(buf.String()).To(ContainSubstring("DEBUG gate resolved gate=protect-system"))
		})
	})

	Context("without flags", func() {
		It("should only log errors", func() {
			log = logger.NewFileLoggerWithWriter(buf, false, false)
			log.Info("quiet")
			log.Error("loud")

			Expect(buf.String()).NotTo(ContainSubstring("quiet"))
			Expect(buf.String()).To(ContainSubstring("loud"))
		})
	})

	Describe("Key-value pairs", func() {
		BeforeEach(func() {
			log = logger.NewFileLoggerWithWriter(buf, true, false)
		})

		It("should render plain values unquoted", func() {
			log.Info("gate finished", "gate", "cel", "exit_code", 2)

			Expect(buf.String()).To(ContainSubstring("gate=cel exit_code=2"))
		})

		It("should quote values containing an equals sign", func() {
			log.Info("gate finished", "command", "FOO=bar")

			Expect(buf.String()).To(ContainSubstring(`command="FOO=bar"`))
		})

		It("should quote and escape values with spaces, quotes and newlines", func() {
			log.Info("verdict", "message", "say \"no\"\nplease")

			Expect(buf.String()).To(ContainSubstring(`message="say \"no\"\nplease"`))
		})
	})

	Describe("With", func() {
		It("should attach base pairs without affecting the parent", func() {
			log = logger.NewFileLoggerWithWriter(buf, true, false)
			child := log.With("dispatch_id", "01J0")

			log.Info("parent")
			child.Info("child")

			lines := bytes.Split(buf.Bytes(), []byte("\n"))
			Expect(string(lines[0])).NotTo(ContainSubstring("dispatch_id"))
			Expect(string(lines[1])).To(ContainSubstring("INFO [01J0] child"))
			Expect(string(lines[1])).NotTo(ContainSubstring("dispatch_id="))
		})

		It("should keep the lock shared with derived loggers", func() {
			log = logger.NewFileLoggerWithWriter(buf, true, false)

			var wg sync.WaitGroup

			for i := range 8 {
				wg.Add(1)

				go func() {
					defer wg.Done()
					defer GinkgoRecover()

					child := log.With("dispatch_id", "01J0", "gate", i)
					for range 20 {
						child.Info("tick")
					}
				}()
			}

			wg.Wait()

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(160))

			for _, line := range lines {
				Expect(line).To(MatchRegexp(`INFO \[01J0\] tick gate=\d$`))
			}
		})
	})

	Describe("NewFileLogger", func() {
		It("should create the parent directory and append", func() {
			path := filepath.Join(GinkgoT().TempDir(), "nested", "router.log")

			fileLog, err := logger.NewFileLogger(path, true, false)
			Expect(err).NotTo(HaveOccurred())

			fileLog.Info("first")
			Expect(fileLog.Close()).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("INFO first"))
		})
	})
})

var _ = Describe("Level", func() {
	DescribeTable("LevelFromFlags",
		func(debug, trace bool, expected logger.Level) {
			Expect(logger.LevelFromFlags(debug, trace)).To(Equal(expected))
		},
		Entry("trace wins", true, true, logger.LevelDebug),
		Entry("debug only", true, false, logger.LevelInfo),
		Entry("neither", false, false, logger.LevelError),
	)

	It("should parse names case-insensitively", func() {
		level, err := logger.ParseLevel("debug")
		Expect(err).NotTo(HaveOccurred())
		Expect(level).To(Equal(logger.LevelDebug))
		Expect(level.String()).To(Equal("DEBUG"))

		_, err = logger.ParseLevel("verbose")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NoOpLogger", func() {
	It("should accept calls and return itself from With", func() {
		log := logger.NewNoOpLogger()

		Expect(func() {
			log.Debug("x")
			log.Info("x")
			log.Error("x")
		}).NotTo(Panic())
		Expect(log.With("k", "v")).To(Equal(log))
	})
})

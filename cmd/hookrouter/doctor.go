package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookrouter/internal/color"
	internalconfig "github.com/smykla-skalski/hookrouter/internal/config"
	"github.com/smykla-skalski/hookrouter/internal/doctor"
	"github.com/smykla-skalski/hookrouter/internal/doctor/checkers"
	"github.com/smykla-skalski/hookrouter/internal/doctor/reporters"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
)

// ErrDoctorFailed is returned when any check fails with error severity.
var ErrDoctorFailed = errors.New("health checks failed")

var (
	doctorVerbose  bool
	doctorCategory string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, gates and stores",
	Long: `Run health checks: the configuration loads and is private, every gate
builds and is activated, command gate programs resolve, the task store is
readable and the state directory is writable.

Exits non-zero when any check fails with error severity.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show details of passing checks")
	doctorCmd.Flags().StringVar(&doctorCategory, "category", "", "Only run one category (config, gates, storage, state)")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	wd, _ := os.Getwd()

	in := checkers.Input{StateDir: xdg.StateDir()}

	cfg, err := loadConfig(wd, buildFlagsMap(cmd))
	if err != nil {
		in.ConfigErr = err
	} else {
		in.Config = cfg

		if dc := cfg.GetCrashDump(); dc.IsEnabled() {
			in.CrashDir = dc.Dir
			if in.CrashDir == "" {
				in.CrashDir = xdg.CrashDumpDir()
			}
		}
	}

	in.ConfigFiles = existingConfigFiles(wd)

	registry := doctor.NewRegistry()
	registry.RegisterChecker(checkers.All(in)...)

	var results []doctor.CheckResult
	if doctorCategory != "" {
		results = registry.RunCategory(cmd.Context(), doctor.Category(doctorCategory))
	} else {
		results = registry.RunAll(cmd.Context())
	}

	reporters.NewTableReporter(cmd.OutOrStdout(), color.NewTheme(color.Enabled(os.Stdout, noColor))).Report(results, doctorVerbose)

	if doctor.HasErrors(results) {
		return ErrDoctorFailed
	}

	return nil
}

func existingConfigFiles(wd string) []string {
	var opts []internalconfig.LoaderOption

	if globalConfig != "" {
		opts = append(opts, internalconfig.WithGlobalConfig(globalConfig))
	}

	if configPath != "" {
		opts = append(opts, internalconfig.WithProjectConfig(configPath))
	}

	loader := internalconfig.NewKoanfLoader(wd, opts...)

	var files []string

	for _, path := range []string{loader.GlobalConfigPath(), loader.FindProjectConfigPath()} {
		if info, err := os.Stat(path); path != "" && err == nil && !info.IsDir() {
			files = append(files, path)
		}
	}

	return files
}

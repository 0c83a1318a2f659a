package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/hookrouter/internal/color"
	"github.com/smykla-skalski/hookrouter/internal/crashdump"
	"github.com/smykla-skalski/hookrouter/internal/prompt"
	"github.com/smykla-skalski/hookrouter/internal/table"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

const retentionDisplayUnits = 2

var (
	crashDryRun bool
	crashYes    bool
	crashFormat string
)

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Manage crash dumps",
	Long: `Manage the dumps hookrouter writes when it panics.

Subcommands:
  list   List crash dumps
  show   Print a crash dump
  clean  Remove dumps beyond crash_dump.max_dumps or crash_dump.max_age`,
}

var crashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crash dumps, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCrashList,
}

var crashShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a crash dump as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrashShow,
}

var crashCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old crash dumps",
	Args:  cobra.NoArgs,
	RunE:  runCrashClean,
}

func init() {
	crashShowCmd.Flags().StringVar(&crashFormat, "format", "json", "Output format (json, yaml)")
	crashCleanCmd.Flags().BoolVar(&crashDryRun, "dry-run", false, "Only list what would be removed")
	crashCleanCmd.Flags().BoolVarP(&crashYes, "yes", "y", false, "Do not ask for confirmation")

	crashCmd.AddCommand(crashListCmd, crashShowCmd, crashCleanCmd)
	rootCmd.AddCommand(crashCmd)
}

func openCrashStore(cmd *cobra.Command) (*crashdump.Store, *config.Config, error) {
	wd, _ := os.Getwd()

	cfg, err := loadConfig(wd, buildFlagsMap(cmd))
	if err != nil {
		return nil, nil, err
	}

	dir := cfg.GetCrashDump().Dir
	if dir == "" {
		dir = xdg.CrashDumpDir()
	}

	store, err := crashdump.NewStore(dir)
	if err != nil {
		return nil, nil, err
	}

	return store, cfg, nil
}

func runCrashList(cmd *cobra.Command, _ []string) error {
	store, cfg, err := openCrashStore(cmd)
	if err != nil {
		return err
	}

	summaries, err := store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(summaries) == 0 {
		fmt.Fprintf(out, "No crash dumps in %s\n", store.Dir())

		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.Timestamp.Local().Format(time.DateTime),
			humanize.Time(s.Timestamp),
			s.Kind,
			s.PanicValue,
			humanize.Bytes(uint64(max(s.Size, 0))),
		})
	}

	fmt.Fprint(out, table.Render([]string{"ID", "Time", "Age", "Kind", "Panic", "Size"}, rows))

	dc := cfg.GetCrashDump()
	fmt.Fprintf(out, "Retention: %d dump(s), %s\n", dc.GetMaxDumps(), formatRetention(dc.GetMaxAge()))

	return nil
}

func formatRetention(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(retentionDisplayUnits).String()
}

func runCrashShow(cmd *cobra.Command, args []string) error {
	store, _, err := openCrashStore(cmd)
	if err != nil {
		return err
	}

	info, err := store.Get(args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding crash dump")
	}

	switch crashFormat {
	case "json":
	case "yaml":
		// Round-trip through JSON so YAML keys follow the JSON field names.
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return errors.Wrap(err, "encoding crash dump")
		}

		if data, err = yaml.Marshal(doc); err != nil {
			return errors.Wrap(err, "encoding crash dump")
		}
	default:
		return errors.Newf("unknown format %q (want json or yaml)", crashFormat)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))

	return nil
}

func runCrashClean(cmd *cobra.Command, _ []string) error {
	store, cfg, err := openCrashStore(cmd)
	if err != nil {
		return err
	}

	dc := cfg.GetCrashDump()
	out := cmd.OutOrStdout()

	expired, err := store.Expired(dc.GetMaxDumps(), dc.GetMaxAge(), time.Now())
	if err != nil {
		return err
	}

	if crashDryRun {
		for _, s := range expired {
			fmt.Fprintln(out, s.ID)
		}

		fmt.Fprintf(out, "Would remove %d crash dump(s)\n", len(expired))

		return nil
	}

	if len(expired) == 0 {
		fmt.Fprintln(out, "Removed 0 crash dump(s)")

		return nil
	}

	var confirmer prompt.Confirmer = prompt.AlwaysYes{}
	if !crashYes && color.IsTerminal(os.Stdin) {
		confirmer = prompt.New(cmd.InOrStdin(), out)
	}

	ok, err := confirmer.Confirm(fmt.Sprintf("Remove %d crash dump(s)?", len(expired)), false)
	if err != nil {
		return err
	}

	if !ok {
		fmt.Fprintln(out, "Aborted")

		return nil
	}

	removed, err := store.Prune(dc.GetMaxDumps(), dc.GetMaxAge(), time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed %d crash dump(s)\n", removed)

	return nil
}

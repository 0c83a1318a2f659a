package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/hookrouter/internal/config"
	"github.com/smykla-skalski/hookrouter/internal/host"
	"github.com/smykla-skalski/hookrouter/internal/table"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

var contractsHost string

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Show the exit code contract per host and event kind",
	Long: `Show which exit code each outcome uses for every host and event kind,
after configured overrides. Exit 0 routes are read from stdout JSON; every
other route is read from stderr. A "-" marks an outcome the host cannot
express for that kind; it degrades to warn.`,
	Args: cobra.NoArgs,
	RunE: runContracts,
}

func init() {
	contractsCmd.Flags().StringVar(&contractsHost, "host", "", "Only show this host")
	rootCmd.AddCommand(contractsCmd)
}

func runContracts(cmd *cobra.Command, _ []string) error {
	wd, _ := os.Getwd()

	cfg, err := loadConfig(wd, buildFlagsMap(cmd))
	if err != nil {
		return err
	}

	hosts, err := internalconfig.HostSet(cfg)
	if err != nil {
		return err
	}

	adapters := hosts.Adapters()

	if contractsHost != "" {
		a, ok := hosts.Get(contractsHost)
		if !ok {
			return &host.UnknownHostError{Host: contractsHost}
		}

		adapters = []host.Adapter{a}
	}

	var rows [][]string

	for _, a := range adapters {
		for _, kind := range a.Kinds() {
			c, ok := a.Contract(kind)
			if !ok {
				continue
			}

			rows = append(rows, []string{
				a.Name(),
				kind.String(),
				nativeNames(a, kind, c.NativeName),
				c.Allow.String(),
				c.Warn.String(),
				optionalRoute(c.Ask),
				optionalRoute(c.Block),
				c.Deny.String(),
			})
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), table.Render(
		[]string{"Host", "Kind", "Native", "Allow", "Warn", "Ask", "Block", "Deny"},
		rows,
	))

	return nil
}

// nativeNames lists the primary native name first, then its aliases.
func nativeNames(a host.Adapter, kind event.Kind, primary string) string {
	names := []string{primary}

	for _, n := range a.NativeNames(kind) {
		if n != primary {
			names = append(names, n)
		}
	}

	return strings.Join(names, ", ")
}

func optionalRoute(r *host.Route) string {
	if r == nil {
		return "-"
	}

	return r.String()
}

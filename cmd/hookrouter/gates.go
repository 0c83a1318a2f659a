package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookrouter/internal/registry"
	"github.com/smykla-skalski/hookrouter/internal/table"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

var gatesKind string

var gatesCmd = &cobra.Command{
	Use:   "gates",
	Short: "List configured gates, activations and orphans",
	Long: `List the gates registered from configuration for the current directory,
the ordered activation per event kind, and every gate that is registered but
never activated or activated but never registered.`,
	Args: cobra.NoArgs,
	RunE: runGates,
}

func init() {
	gatesCmd.Flags().StringVarP(&gatesKind, "kind", "k", "", "Only show the activation for this event kind")
	rootCmd.AddCommand(gatesCmd)
}

func runGates(cmd *cobra.Command, _ []string) error {
	var only *event.Kind

	if gatesKind != "" {
		kind, err := event.ParseKind(gatesKind)
		if err != nil {
			return err
		}

		only = &kind
	}

	wd, _ := os.Getwd()

	cfg, err := loadConfig(wd, buildFlagsMap(cmd))
	if err != nil {
		return err
	}

	reg, err := buildRegistry(cfg, logger.NewNoOpLogger())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	fmt.Fprint(w, table.Render(
		[]string{"Gate", "Type", "Mode", "Timeout", "Enabled", "Filtered", "Description"},
		gateRows(cfg, reg),
	))

	fmt.Fprintln(w)
	fmt.Fprint(w, table.Render([]string{"Kind", "Gates"}, activationRows(reg, only)))

	orphans := reg.ListOrphaned()
	if len(orphans) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(orphans))

	for _, o := range orphans {
		kinds := make([]string, 0, len(o.Kinds))
		for _, k := range o.Kinds {
			kinds = append(kinds, k.String())
		}

		rows = append(rows, []string{o.Name, o.Reason.String(), strings.Join(kinds, ", ")})
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, table.Render([]string{"Orphan", "Reason", "Kinds"}, rows))

	return nil
}

// gateRows lists registered gates in registration order, followed by the
// disabled ones from configuration.
func gateRows(cfg *config.Config, reg *registry.Registry) [][]string {
	byName := make(map[string]*config.GateConfig, len(cfg.Gates))
	for i := range cfg.Gates {
		byName[cfg.Gates[i].Name] = &cfg.Gates[i]
	}

	rows := make([][]string, 0, len(cfg.Gates))

	for _, r := range reg.Registrations() {
		var typ, description string
		if gc, ok := byName[r.Name]; ok {
			typ, description = gc.Type, gc.Description
		}

		timeout := "default"
		if r.Timeout > 0 {
			timeout = r.Timeout.String()
		}

		filtered := "-"
		if r.Predicate != nil {
			filtered = "yes"
		}

		rows = append(rows, []string{r.Name, typ, r.Mode.String(), timeout, "true", filtered, description})
	}

	for _, g := range cfg.Gates {
		if g.IsEnabled() {
			continue
		}

		rows = append(rows, []string{g.Name, g.Type, "-", "-", "false", "-", g.Description})
	}

	return rows
}

func activationRows(reg *registry.Registry, only *event.Kind) [][]string {
	activations := reg.Activations()

	var rows [][]string

	for _, kind := range event.Kinds() {
		if only != nil && kind != *only {
			continue
		}

		names := activations[kind]
		if len(names) == 0 && only == nil {
			continue
		}

		rows = append(rows, []string{kind.String(), strings.Join(names, " → ")})
	}

	return rows
}

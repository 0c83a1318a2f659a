package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/hookrouter/internal/config"
	"github.com/smykla-skalski/hookrouter/internal/schema"
)

var (
	schemaCompact bool
	initGlobal    bool
	initForce     bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create configuration",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := schema.GenerateJSON(!schemaCompact)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration that applies in the current directory after
defaults, global and project files, environment variables and flags are merged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wd, _ := os.Getwd()

		cfg, err := loadConfig(wd, buildFlagsMap(cmd))
		if err != nil {
			return err
		}

		data, err := internalconfig.Encode(cfg)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write the built-in defaults to .hookrouter/config.toml in the current
directory, or to the global config file with --global.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		w := internalconfig.NewWriter(nil, wd)

		path := w.ProjectConfigPath()
		if initGlobal {
			path = w.GlobalConfigPath()
		}

		if err := w.WriteFile(path, internalconfig.DefaultConfig(), initForce); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

		return nil
	},
}

func init() {
	configSchemaCmd.Flags().BoolVar(&schemaCompact, "compact", false, "Print compact JSON")
	configInitCmd.Flags().BoolVarP(&initGlobal, "global", "g", false, "Write the global config file")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configSchemaCmd, configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/clientup/internal/config"
)

var forceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default configuration as TOML to the config path.

An existing file is left alone unless --force is given.

Examples:
  clientup config init
  clientup config init --force
  clientup --config ./clientup.toml config init`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	if err := config.WriteDefaults(path, forceFlag); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

	return nil
}

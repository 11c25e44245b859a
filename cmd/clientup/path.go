package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/clientup/internal/installer"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the client lives once installed",
	Long: `Print where the client lives once installed.

On Linux this is the bare command name, resolved through PATH. On macOS and
Windows it is a file in the data directory.`,
	Args: cobra.NoArgs,
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inst, err := newApp(cfg, logger.NewNoOpLogger()).newInstaller(nil)
	if err != nil {
		return err
	}

	if inst.ClientPath() == "" {
		return errors.Wrapf(installer.ErrUnsupportedPlatform, "platform %s", inst.Profile().Kind)
	}

	fmt.Fprintln(cmd.OutOrStdout(), inst.ClientPath())

	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether the client is installed",
	Long: `Report whether the client is installed.

Prints "installed" or "not installed" and exits 0 either way. A failure to
find out, or an unsupported platform, exits 1.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog := newLogger()
	defer closeLog()

	a := newApp(cfg, log)

	inst, err := a.newInstaller(nil)
	if err != nil {
		return err
	}

	installed, err := inst.Check(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !installed {
		fmt.Fprintln(out, "not installed")

		return nil
	}

	if !a.kind.UsesArchive() {
		fmt.Fprintf(out, "installed: %s\n", inst.ClientPath())

		return nil
	}

	var size string

	if info, err := os.Stat(inst.ClientPath()); err == nil {
		size = " (" + humanize.Bytes(uint64(info.Size())) + ")" //nolint:gosec // file sizes are non-negative
	}

	fmt.Fprintf(out, "installed: %s%s\n", inst.ClientPath(), size)

	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/clientup/internal/color"
	"github.com/smykla-skalski/clientup/internal/installer"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/prompt"
	"github.com/smykla-skalski/clientup/internal/tui"
)

const durationDisplayUnits = 2

var (
	passwordStdin bool
	noPromptFlag  bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the client",
	Long: `Install the client for this platform.

On Linux the package manager runs through sudo. The sudo password is asked for
on a terminal, read from stdin with --password-stdin, or skipped with
--no-prompt, in which case sudo must not need one.

Examples:
  clientup install
  echo "$PASS" | clientup install --password-stdin
  clientup install --repository acme/client --release-version v2.1.0`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the sudo password from stdin")
	installCmd.Flags().BoolVar(&noPromptFlag, "no-prompt", false, "Never ask for the sudo password")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog := newLogger()
	defer closeLog()

	theme := color.NewTheme(color.FromEnv(noColorFlag) && color.IsTerminal(os.Stdout))
	out := cmd.OutOrStdout()

	a := newApp(cfg, log)

	inst, err := a.newInstaller(statusPrinter(out, theme))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var secret string

	if a.kind == platform.KindLinux && needsSecret(ctx, inst) {
		secret, err = readSecret()
		if err != nil {
			return err
		}
	}

	start := time.Now()

	if err := inst.Install(ctx, secret); err != nil {
		return err
	}

	elapsed := durafmt.Parse(time.Since(start).Round(time.Millisecond)).LimitFirstN(durationDisplayUnits)

	fmt.Fprintf(out, "%s Installed %s in %s\n", theme.Pass.Render("✓"), inst.ClientPath(), elapsed)

	return nil
}

// needsSecret reports whether the package manager may run. A client already
// on PATH skips the password prompt. A failed check still prompts and Install
// reports the error.
func needsSecret(ctx context.Context, inst *installer.Installer) bool {
	installed, err := inst.Check(ctx)

	return err != nil || !installed
}

// statusPrinter writes status events, one per line. Terminal events are
// handled by the caller through the returned error.
func statusPrinter(out io.Writer, theme color.Theme) installer.Sink {
	return func(e installer.Event) {
		if e.Kind == installer.EventStatus {
			fmt.Fprintln(out, theme.Status.Render(e.Message))
		}
	}
}

// readSecret gets the sudo password the way the install flags ask for. An
// empty result makes the package manager run sudo non-interactively.
func readSecret() (string, error) {
	opts := tui.SecretOptions{
		Title:       "sudo password",
		Description: "Needed to install pip and the client. Leave empty if sudo needs none.",
		AllowEmpty:  true,
	}

	switch {
	case noPromptFlag:
		return "", nil
	case passwordStdin:
		opts.Title, opts.Description = "", ""

		return tui.NewFallbackUIWithPrompter(prompt.NewPrompter(os.Stdin, io.Discard), io.Discard).ReadSecret(opts)
	case !tui.IsTerminal():
		return "", nil
	default:
		return tui.New().ReadSecret(opts)
	}
}

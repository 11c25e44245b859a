package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/clientup/internal/color"
	"github.com/smykla-skalski/clientup/internal/doctor"
	clientchecker "github.com/smykla-skalski/clientup/internal/doctor/checkers/client"
	configchecker "github.com/smykla-skalski/clientup/internal/doctor/checkers/config"
	"github.com/smykla-skalski/clientup/internal/doctor/checkers/paths"
	"github.com/smykla-skalski/clientup/internal/doctor/checkers/tools"
	"github.com/smykla-skalski/clientup/internal/doctor/fixers"
	"github.com/smykla-skalski/clientup/internal/doctor/reporters"
	"github.com/smykla-skalski/clientup/internal/exec"
	"github.com/smykla-skalski/clientup/internal/installer"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/prompt"
)

var (
	verboseFlag  bool
	fixFlag      bool
	categoryFlag []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the client installation",
	Long: `Diagnose the client installation and the environment it needs.

Checks:
- Client presence and permissions
- Data directory and leftover downloads (macOS, Windows)
- Configuration file validity
- Install tools: sh, pip, sudo, apt-get (Linux)

Examples:
  clientup doctor                    # Run all checks
  clientup doctor --verbose          # Show details for every check
  clientup doctor --fix              # Fix what can be fixed without asking
  clientup doctor --category client  # Check specific categories`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show details for every check")
	doctorCmd.Flags().BoolVar(&fixFlag, "fix", false, "Apply fixes without prompting")
	doctorCmd.Flags().StringSliceVar(
		&categoryFlag,
		"category",
		[]string{},
		"Filter checks by category (client, paths, config, tools)",
	)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfgPath, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	log, closeLog := newLogger()
	defer closeLog()

	// A broken config file is reported by the config check instead of
	// stopping the run.
	cfg, err := loadConfigFrom(cmd, cfgPath)
	if err != nil {
		log.Error("config file unusable, checking with defaults", "path", cfgPath, "err", err)

		if cfg, err = loadConfigFrom(cmd, ""); err != nil {
			return err
		}
	}

	log.Info("starting doctor command",
		"verbose", verboseFlag,
		"fix", fixFlag,
		"categories", categoryFlag,
	)

	a := newApp(cfg, log)

	inst, err := a.newInstaller(statusPrinter(os.Stderr, color.Theme{}))
	if err != nil {
		return err
	}

	prompter := prompt.NewStdPrompter()

	registry := buildDoctorRegistry(a, inst, cfgPath)
	registerFixers(registry, a, inst, prompter, cfgPath)

	tty := color.IsTerminal(os.Stdout)

	runner := doctor.NewRunner(registry, selectReporter(tty), prompter, log, os.Stdout)

	return runner.Run(cmd.Context(), doctor.RunOptions{
		Verbose:     verboseFlag,
		AutoFix:     fixFlag,
		Interactive: !fixFlag && tty,
		Categories:  parseCategories(categoryFlag),
	})
}

// buildDoctorRegistry registers the checks that apply to the platform.
func buildDoctorRegistry(a *app, inst *installer.Installer, cfgPath string) *doctor.Registry {
	registry := doctor.NewRegistry()

	registry.RegisterChecker(clientchecker.NewPresenceChecker(inst))
	registry.RegisterChecker(clientchecker.NewPermissionsChecker(inst.Profile()))

	if a.kind.UsesArchive() {
		registry.RegisterChecker(paths.NewDataDirChecker(a.cfg.Paths.DataDir))
		registry.RegisterChecker(paths.NewScratchChecker(a.cfg.Paths.DataDir))
	}

	registry.RegisterChecker(configchecker.NewFileChecker(cfgPath))

	if a.kind == platform.KindLinux {
		toolChecker := exec.NewToolChecker()

		registry.RegisterChecker(tools.NewShellChecker(toolChecker))
		registry.RegisterChecker(tools.NewPackageManagerChecker(toolChecker, a.cfg.Linux.PackageManager))
		registry.RegisterChecker(tools.NewSudoChecker(toolChecker))
		registry.RegisterChecker(tools.NewSystemPackageChecker(toolChecker))
	}

	return registry
}

func registerFixers(
	registry *doctor.Registry,
	a *app,
	inst *installer.Installer,
	prompter prompt.Prompter,
	cfgPath string,
) {
	var secret fixers.SecretFunc
	if a.kind == platform.KindLinux {
		secret = func(context.Context) (string, error) { return readSecret() }
	}

	registry.RegisterFixer(fixers.NewInstallClientFixer(inst, secret, prompter))
	registry.RegisterFixer(fixers.NewPermissionsFixer(prompter, inst.ClientPath(), cfgPath))
	registry.RegisterFixer(fixers.NewScratchFixer(prompter, a.cfg.Paths.DataDir))
	registry.RegisterFixer(fixers.NewDataDirFixer(a.cfg.Paths.DataDir))
}

// parseCategories converts category names, warning about unknown ones.
func parseCategories(names []string) []doctor.Category {
	if len(names) == 0 {
		return nil
	}

	known := map[string]doctor.Category{
		"client": doctor.CategoryClient,
		"paths":  doctor.CategoryPaths,
		"config": doctor.CategoryConfig,
		"tools":  doctor.CategoryTools,
	}

	var categories []doctor.Category

	for _, name := range names {
		if cat, ok := known[name]; ok {
			categories = append(categories, cat)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: unknown category %q, ignoring\n", name)
		}
	}

	return categories
}

// selectReporter picks the reporter for the terminal.
//
//	TTY             -> InteractiveReporter (spinners, then the table)
//	non-TTY + color -> ColoredReporter (static table)
//	otherwise       -> SimpleReporter (plain lines)
//
//nolint:ireturn // factory selecting the reporter implementation by environment
func selectReporter(tty bool) doctor.Reporter {
	colorEnabled := color.FromEnv(noColorFlag)
	theme := color.NewTheme(colorEnabled)
	home, _ := os.UserHomeDir()

	if tty {
		table := reporters.NewTable(theme, color.Width(os.Stdout), home)

		return reporters.NewInteractiveReporter(os.Stdout, os.Stderr, os.Stdin, table, home)
	}

	if colorEnabled {
		return reporters.NewColoredReporter(os.Stdout, reporters.NewTable(theme, 0, home))
	}

	return reporters.NewSimpleReporter(os.Stdout, home)
}

// Package main provides the CLI entry point for clientup.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smykla-skalski/clientup/internal/config"
	"github.com/smykla-skalski/clientup/internal/xdg"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// ExitCodeFailure is returned for every command error.
const ExitCodeFailure = 1

var (
	configPath     string
	dataDirFlag    string
	manifestURL    string
	repository     string
	releaseVersion string
	timeoutFlag    time.Duration
	platformFlag   string
	debugMode      bool
	traceMode      bool
	noColorFlag    bool
)

// hostPaths locates the default config file, data dir and log file.
var hostPaths xdg.PathResolver = xdg.DefaultResolver()

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeFailure
	}

	return 0
}

var rootCmd = &cobra.Command{
	Use:   "clientup",
	Short: "Install and check the client",
	Long: `clientup installs the client and reports where it lives.

On Linux the client is installed with pip, installing pip itself through the
system package manager when needed. On macOS and Windows the matching release
archive is downloaded and extracted into the data directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&configPath, "config", "c", "",
		"Path to configuration file (default: $XDG_CONFIG_HOME/clientup/config.toml)")
	flags.StringVar(&dataDirFlag, "data-dir", "",
		"Directory the client archive is extracted into (default: $XDG_DATA_HOME/clientup)")
	flags.StringVar(&manifestURL, "manifest-url", "", "Release manifest URL")
	flags.StringVar(&repository, "repository", "", "GitHub repository (owner/repo) to fetch releases from")
	flags.StringVar(&releaseVersion, "release-version", "", "Release tag to install (requires --repository)")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "Upper bound for a whole install")
	flags.StringVar(&platformFlag, "platform", runtime.GOOS,
		"Target platform layout; windows on a non-Windows host yields a backslash path check cannot find")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&traceMode, "trace", false, "Enable trace logging")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	_ = flags.MarkHidden("platform")
}

// resolvedConfigPath returns --config or the XDG default.
func resolvedConfigPath() (string, error) {
	if configPath == "" {
		return hostPaths.GlobalConfigFile(), nil
	}

	return xdg.ExpandPath(configPath)
}

// loadConfig reads defaults, the config file, CLIENTUP_* variables and the
// flags that were set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := resolvedConfigPath()
	if err != nil {
		return nil, err
	}

	return loadConfigFrom(cmd, path)
}

// loadConfigFrom is loadConfig with an explicit file. An empty path skips
// the file.
func loadConfigFrom(cmd *cobra.Command, path string) (*config.Config, error) {
	flags := make(map[string]any)

	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})

	cfg, err := config.NewKoanfLoader(path).Load(flags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = hostPaths.DataDir()
	}

	cfg.Paths.DataDir, err = xdg.ExpandPath(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger opens the log file. When that fails logging is disabled rather
// than failing the command.
func newLogger() (logger.Logger, func()) {
	log, err := logger.NewFileLogger(hostPaths.LogFile(), debugMode, traceMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)

		return logger.NewNoOpLogger(), func() {}
	}

	return log, func() { _ = log.Close() }
}

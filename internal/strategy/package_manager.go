package strategy

import (
	"bufio"
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/exec"
	"github.com/smykla-skalski/clientup/internal/presence"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// Defaults for Debian-family hosts.
const (
	DefaultPackageManager = "pip3"
	sudoCommand           = "sudo"
)

// DefaultDependencyInstall installs the pip front-end.
func DefaultDependencyInstall() []string {
	return []string{"apt-get", "install", "-y", "python3-pip"}
}

// PackageManagerOptions configures PackageManager.
type PackageManagerOptions struct {
	Runner exec.CommandRunner
	// Lookup checks for the package-manager front-end. Defaults to a shell
	// lookup of Manager.
	Lookup presence.Checker
	// Manager is the front-end command, e.g. "pip3".
	Manager string
	// Package is the client package name.
	Package string
	// DependencyInstall is run elevated when Manager is missing.
	DependencyInstall []string
	Logger            logger.Logger
}

// PackageManager installs the client through pip, first installing pip
// itself when it is missing.
type PackageManager struct {
	runner     exec.CommandRunner
	lookup     presence.Checker
	manager    string
	pkg        string
	dependency []string
	logger     logger.Logger
}

// NewPackageManager creates the Linux strategy.
func NewPackageManager(opts PackageManagerOptions) *PackageManager {
	if opts.Manager == "" {
		opts.Manager = DefaultPackageManager
	}

	if len(opts.DependencyInstall) == 0 {
		opts.DependencyInstall = DefaultDependencyInstall()
	}

	if opts.Lookup == nil {
		opts.Lookup = presence.NewShellLookup(opts.Runner, opts.Manager)
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}

	return &PackageManager{
		runner:     opts.Runner,
		lookup:     opts.Lookup,
		manager:    opts.Manager,
		pkg:        opts.Package,
		dependency: opts.DependencyInstall,
		logger:     opts.Logger,
	}
}

// Install ensures the front-end is present, then installs the package.
// Any failure aborts the sequence.
func (p *PackageManager) Install(ctx context.Context, secret string, status StatusFunc) error {
	if status == nil {
		status = func(string) {}
	}

	present, err := p.lookup.CheckInstalled(ctx)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "checking for %s", p.manager), ErrDependencyInstall)
	}

	if !present {
		status("Installing " + p.manager)

		if err := p.elevated(ctx, secret, p.dependency, status); err != nil {
			return errors.Mark(errors.Wrapf(err, "installing %s", p.manager), ErrDependencyInstall)
		}
	}

	status("Installing " + p.pkg)

	if err := p.elevated(ctx, secret, []string{p.manager, "install", p.pkg}, status); err != nil {
		return errors.Mark(errors.Wrapf(err, "installing %s", p.pkg), ErrClientInstall)
	}

	return nil
}

// elevated runs argv through sudo. The credential travels on stdin, never on
// the command line. Without a credential sudo must not prompt.
func (p *PackageManager) elevated(
	ctx context.Context,
	secret string,
	argv []string,
	status StatusFunc,
) error {
	p.logger.Info("running elevated command", "command", strings.Join(argv, " "))

	var result exec.CommandResult

	if secret == "" {
		args := append([]string{"-n", "--"}, argv...)
		result = p.runner.Run(ctx, sudoCommand, args...)
	} else {
		args := append([]string{"-S", "-p", "", "--"}, argv...)
		result = p.runner.RunWithStdin(ctx, strings.NewReader(secret+"\n"), sudoCommand, args...)
	}

	if result.Failed() {
		p.logger.Error("elevated command failed",
			"command", argv[0], "exit", result.ExitCode, "stderr", result.Stderr)

		cause := result.Err
		if cause == nil {
			cause = errors.Newf("exit status %d", result.ExitCode)
		}

		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			return errors.Wrapf(cause, "%s: %s", argv[0], stderr)
		}

		return errors.Wrap(cause, argv[0])
	}

	forwardLines(result.Stdout, status)

	return nil
}

func forwardLines(out string, status StatusFunc) {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			status(line)
		}
	}
}

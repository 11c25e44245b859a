// Package presence decides whether the client is already installed.
package presence

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"

	"github.com/smykla-skalski/clientup/internal/exec"
	"github.com/smykla-skalski/clientup/internal/platform"
)

//go:generate mockgen -source=presence.go -destination=presence_mock.go -package=presence

// DefaultShell runs command lookups.
const DefaultShell = "sh"

// ErrLookupFailed marks a lookup whose shell could not be started.
var ErrLookupFailed = errors.New("command lookup failed")

// Checker reports whether something is installed.
type Checker interface {
	CheckInstalled(ctx context.Context) (bool, error)
}

// ShellLookup asks the shell whether a command is on the search path.
type ShellLookup struct {
	runner  exec.CommandRunner
	shell   string
	command string
}

// NewShellLookup creates a lookup for command using DefaultShell.
func NewShellLookup(runner exec.CommandRunner, command string) *ShellLookup {
	return &ShellLookup{runner: runner, shell: DefaultShell, command: command}
}

// Command returns the command name being looked up.
func (s *ShellLookup) Command() string {
	return s.command
}

// Script returns the shell snippet used for the lookup.
func (s *ShellLookup) Script() (string, error) {
	quoted, err := syntax.Quote(s.command, syntax.LangPOSIX)
	if err != nil {
		return "", errors.Wrapf(err, "quoting command name %q", s.command)
	}

	return "command -v " + quoted, nil
}

// CheckInstalled returns an error only when the shell itself could not run.
// Anything on stderr or a non-zero exit means the command is absent.
func (s *ShellLookup) CheckInstalled(ctx context.Context) (bool, error) {
	script, err := s.Script()
	if err != nil {
		return false, errors.Mark(err, ErrLookupFailed)
	}

	result := s.runner.Run(ctx, s.shell, "-c", script)

	switch {
	case result.NotStarted():
		return false, errors.Mark(
			errors.Wrapf(result.Err, "looking up %s", s.command),
			ErrLookupFailed,
		)
	case strings.TrimSpace(result.Stderr) != "":
		return false, nil
	case result.Failed():
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, errors.Mark(errors.Wrapf(ctxErr, "looking up %s", s.command), ErrLookupFailed)
		}

		return false, nil
	default:
		return true, nil
	}
}

// FileExists checks for a filesystem entry at a fixed path.
type FileExists struct {
	path string
}

// NewFileExists creates a checker for path.
func NewFileExists(path string) *FileExists {
	return &FileExists{path: path}
}

// Path returns the checked path.
func (f *FileExists) Path() string {
	return f.path
}

// CheckInstalled never fails: a stat error of any kind reads as absent.
func (f *FileExists) CheckInstalled(context.Context) (bool, error) {
	if f.path == "" {
		return false, nil
	}

	_, err := os.Stat(f.path)

	return err == nil, nil
}

// ForProfile picks the checker that matches the profile's install layout.
//
//nolint:ireturn // callers only need the Checker behavior
func ForProfile(profile platform.Profile, runner exec.CommandRunner) (Checker, error) {
	switch profile.Kind {
	case platform.KindLinux:
		return NewShellLookup(runner, profile.ClientPath), nil
	case platform.KindDarwin, platform.KindWindows:
		return NewFileExists(profile.ClientPath), nil
	default:
		return nil, errors.Newf("no presence checker for platform %s", profile.Kind)
	}
}

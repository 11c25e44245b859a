// Package exec provides abstractions for executing external commands.
package exec

//go:generate mockgen -source=command.go -destination=command_mock.go -package=exec

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// CommandResult contains the result of a command execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error

	// started is false when the process could not be spawned at all.
	started bool
}

// Success reports whether the command ran and exited with code 0.
func (r CommandResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Failed reports whether the command did not succeed.
func (r CommandResult) Failed() bool {
	return !r.Success()
}

// NotStarted reports whether the process failed to spawn, as opposed to
// running and exiting with a non-zero code.
func (r CommandResult) NotStarted() bool {
	return r.Err != nil && !r.started
}

// StartedResult builds a result for a process that ran. Intended for fakes.
func StartedResult(stdout, stderr string, exitCode int, err error) CommandResult {
	return CommandResult{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Err:      err,
		started:  true,
	}
}

// CommandRunner executes external commands with timeout and output capture.
type CommandRunner interface {
	// Run executes a command and returns the result.
	Run(ctx context.Context, name string, args ...string) CommandResult

	// RunWithStdin executes a command with stdin input.
	RunWithStdin(ctx context.Context, stdin io.Reader, name string, args ...string) CommandResult

	// RunWithTimeout executes a command with a specific timeout.
	RunWithTimeout(timeout time.Duration, name string, args ...string) CommandResult
}

type commandRunner struct {
	defaultTimeout time.Duration
}

// NewCommandRunner creates a new CommandRunner. A positive defaultTimeout
// bounds every Run and RunWithStdin call on top of the caller's context.
func NewCommandRunner(defaultTimeout time.Duration) CommandRunner {
	return &commandRunner{
		defaultTimeout: defaultTimeout,
	}
}

// Run executes a command and returns the result.
func (r *commandRunner) Run(ctx context.Context, name string, args ...string) CommandResult {
	return r.run(ctx, nil, name, args...)
}

// RunWithStdin executes a command with stdin input.
func (r *commandRunner) RunWithStdin(
	ctx context.Context,
	stdin io.Reader,
	name string,
	args ...string,
) CommandResult {
	return r.run(ctx, stdin, name, args...)
}

// RunWithTimeout executes a command with a specific timeout.
func (r *commandRunner) RunWithTimeout(
	timeout time.Duration,
	name string,
	args ...string,
) CommandResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return r.Run(ctx, name, args...)
}

func (r *commandRunner) run(
	ctx context.Context,
	stdin io.Reader,
	name string,
	args ...string,
) CommandResult {
	if r.defaultTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.defaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return CommandResult{
			ExitCode: -1,
			Err:      errors.Wrapf(err, "starting %s", name),
		}
	}

	err := cmd.Wait()

	result := CommandResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		started: true,
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = errors.WithSecondaryError(ctxErr, err)
	}

	result.Err = errors.Wrapf(err, "executing %s", name)

	return result
}

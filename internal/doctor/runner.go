package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/prompt"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// ErrChecksFailed is returned when at least one error-severity check fails
// after any fixes were applied.
var ErrChecksFailed = errors.New("health checks failed")

// Runner orchestrates health checks and fixes
type Runner struct {
	registry *Registry
	reporter Reporter
	prompter prompt.Prompter
	logger   logger.Logger
	out      io.Writer
}

// RunOptions configures the doctor run behavior
type RunOptions struct {
	// Verbose enables detailed output
	Verbose bool

	// AutoFix applies fixes without prompting (--fix)
	AutoFix bool

	// Interactive prompts the user before each fix
	Interactive bool

	// Categories filters checks by category
	Categories []Category
}

// NewRunner creates a new Runner. Suggestions are written to out.
func NewRunner(
	registry *Registry,
	reporter Reporter,
	prompter prompt.Prompter,
	log logger.Logger,
	out io.Writer,
) *Runner {
	return &Runner{
		registry: registry,
		reporter: reporter,
		prompter: prompter,
		logger:   log,
		out:      out,
	}
}

// Run executes health checks and applies fixes if needed
func (r *Runner) Run(ctx context.Context, opts RunOptions) error {
	r.logger.Info("starting doctor run", "verbose", opts.Verbose, "autoFix", opts.AutoFix)

	results := r.check(ctx, opts)

	r.logger.Info("checks completed", "total", len(results))

	fixable := r.collectFixableResults(results)
	if len(fixable) == 0 {
		return r.determineExitError(results)
	}

	switch {
	case opts.AutoFix:
		r.logger.Info("applying fixes", "count", len(fixable))

		if err := r.applyFixes(ctx, fixable, false); err != nil {
			return errors.Wrap(err, "failed to apply fixes")
		}
	case opts.Interactive:
		r.logger.Info("prompting for fixes", "count", len(fixable))

		if err := r.promptAndApplyFixes(ctx, fixable); err != nil {
			return errors.Wrap(err, "failed to apply fixes")
		}
	default:
		r.suggestFixes(fixable)

		return r.determineExitError(results)
	}

	r.logger.Info("re-running failed checks after fixes")

	rerun := r.rerunChecks(ctx, fixable)
	r.reporter.Report(rerun, opts.Verbose)

	return r.determineExitError(r.combineResults(results, rerun))
}

func (r *Runner) check(ctx context.Context, opts RunOptions) []CheckResult {
	if streaming, ok := r.reporter.(StreamingReporter); ok {
		return streaming.RunAndReport(ctx, r.registry, opts.Verbose, opts.Categories)
	}

	results := r.registry.Run(ctx, opts.Categories)
	r.reporter.Report(results, opts.Verbose)

	return results
}

// collectFixableResults returns failures that have a fixer. Warnings count
// too, a stale scratch directory is only a warning but is still worth
// cleaning.
func (r *Runner) collectFixableResults(results []CheckResult) []CheckResult {
	var fixable []CheckResult

	for _, result := range results {
		if result.Status != StatusFail || !result.HasFix() {
			continue
		}

		if _, ok := r.registry.Fixer(result.FixID); ok {
			fixable = append(fixable, result)
		}
	}

	return fixable
}

func (r *Runner) applyFixes(ctx context.Context, results []CheckResult, interactive bool) error {
	for _, result := range results {
		if err := r.applyFix(ctx, result, interactive); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) applyFix(ctx context.Context, result CheckResult, interactive bool) error {
	fixer, ok := r.registry.Fixer(result.FixID)
	if !ok {
		r.logger.Error("fixer not found", "fixID", result.FixID)

		return nil
	}

	if !fixer.CanFix(result) {
		r.logger.Info("fixer declined", "check", result.Name, "fixer", fixer.ID())

		return nil
	}

	r.logger.Info("applying fix", "check", result.Name, "fixer", fixer.ID())

	if err := fixer.Fix(ctx, interactive); err != nil {
		return errors.Wrapf(err, "failed to fix %q", result.Name)
	}

	r.logger.Info("fix applied successfully", "check", result.Name)

	return nil
}

func (r *Runner) promptAndApplyFixes(ctx context.Context, results []CheckResult) error {
	for _, result := range results {
		fixer, ok := r.registry.Fixer(result.FixID)
		if !ok {
			continue
		}

		question := fmt.Sprintf("%s: %s?", result.Name, fixer.Description())

		confirmed, err := r.prompter.Confirm(question, true)
		if err != nil {
			return errors.Wrap(err, "failed to get user confirmation")
		}

		if !confirmed {
			r.logger.Info("fix skipped by user", "check", result.Name)

			continue
		}

		if err := r.applyFix(ctx, result, true); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) suggestFixes(results []CheckResult) {
	_, _ = fmt.Fprintln(r.out, "\nSuggested fixes:")

	for _, result := range results {
		fixer, ok := r.registry.Fixer(result.FixID)
		if !ok {
			continue
		}

		_, _ = fmt.Fprintf(r.out, "  - %s: %s\n", result.Name, fixer.Description())
	}

	_, _ = fmt.Fprintln(r.out, "\nRun 'clientup doctor --fix' to apply fixes automatically")
}

// rerunChecks runs again only the checkers whose results were fixed.
func (r *Runner) rerunChecks(ctx context.Context, results []CheckResult) []CheckResult {
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.Name)
	}

	return RunCheckers(ctx, r.registry.Named(names))
}

// combineResults replaces original results with their rerun counterparts.
func (*Runner) combineResults(original, rerun []CheckResult) []CheckResult {
	byName := make(map[string]CheckResult, len(rerun))
	for _, result := range rerun {
		byName[result.Name] = result
	}

	combined := make([]CheckResult, 0, len(original))

	for _, result := range original {
		if updated, ok := byName[result.Name]; ok {
			combined = append(combined, updated)

			continue
		}

		combined = append(combined, result)
	}

	return combined
}

func (r *Runner) determineExitError(results []CheckResult) error {
	errorCount := 0
	warningCount := 0

	for _, result := range results {
		switch {
		case result.IsError():
			errorCount++
		case result.IsWarning():
			warningCount++
		}
	}

	r.logger.Info("final status",
		"errors", errorCount,
		"warnings", warningCount,
		"total", len(results),
	)

	if errorCount > 0 {
		return errors.Wrapf(ErrChecksFailed, "%d error(s)", errorCount)
	}

	return nil
}

package reporters

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smykla-skalski/clientup/internal/doctor"
)

// InteractiveReporter animates checks on the terminal while they run, then
// prints the table. Implements doctor.StreamingReporter.
type InteractiveReporter struct {
	out   io.Writer
	tty   io.Writer
	in    io.Reader
	table *Table
	home  string
}

// NewInteractiveReporter creates an InteractiveReporter. The animation is
// drawn on tty, keys are read from in, and the final table goes to out.
func NewInteractiveReporter(out, tty io.Writer, in io.Reader, table *Table, home string) *InteractiveReporter {
	return &InteractiveReporter{out: out, tty: tty, in: in, table: table, home: home}
}

// Report renders results as a static table. The runner calls it for the
// re-run after fixes.
func (r *InteractiveReporter) Report(results []doctor.CheckResult, verbose bool) {
	writeTable(r.out, r.table, results, verbose)
}

// RunAndReport runs the checks under a bubbletea program and returns their
// results. If the program cannot start the checks run without animation.
func (r *InteractiveReporter) RunAndReport(
	ctx context.Context,
	registry *doctor.Registry,
	verbose bool,
	categories []doctor.Category,
) []doctor.CheckResult {
	checkers := registry.Select(categories)
	if len(checkers) == 0 {
		_, _ = fmt.Fprintln(r.out, "No checks to run.")

		return nil
	}

	program := tea.NewProgram(
		newDoctorModel(ctx, checkers, r.table.theme, r.home),
		tea.WithContext(ctx),
		tea.WithOutput(r.tty),
		tea.WithInput(r.in),
	)

	final, err := program.Run()
	if err != nil {
		_, _ = fmt.Fprintf(r.tty, "interactive output failed: %v, falling back to static output\n", err)

		results := doctor.RunCheckers(ctx, checkers)
		r.Report(results, verbose)

		return results
	}

	m, ok := final.(doctorModel)
	if !ok {
		return nil
	}

	results := m.results()
	r.Report(results, verbose)

	return results
}

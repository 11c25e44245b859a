package reporters

import (
	"fmt"
	"io"

	"github.com/smykla-skalski/clientup/internal/doctor"
)

// ColoredReporter writes a static colored table. It is used when color is on
// but there is no terminal to animate, e.g. output piped to a pager.
type ColoredReporter struct {
	out   io.Writer
	table *Table
}

// NewColoredReporter creates a ColoredReporter.
func NewColoredReporter(out io.Writer, table *Table) *ColoredReporter {
	return &ColoredReporter{out: out, table: table}
}

// Report renders results as a table followed by the summary.
func (r *ColoredReporter) Report(results []doctor.CheckResult, verbose bool) {
	writeTable(r.out, r.table, results, verbose)
}

func writeTable(out io.Writer, table *Table, results []doctor.CheckResult, verbose bool) {
	_, _ = fmt.Fprintln(out, header)
	_, _ = fmt.Fprintln(out)

	if rendered := table.Render(results, verbose); rendered != "" {
		_, _ = fmt.Fprintln(out, rendered)
		_, _ = fmt.Fprintln(out)
	}

	_, _ = fmt.Fprintln(out, table.Summary(results))
}

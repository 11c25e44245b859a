// Package reporters provides output formatting for doctor check results
package reporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/smykla-skalski/clientup/internal/doctor"
)

const header = "Checking clientup installation..."

// categoryOrder defines the display order for categories
var categoryOrder = []doctor.Category{
	doctor.CategoryClient,
	doctor.CategoryPaths,
	doctor.CategoryConfig,
	doctor.CategoryTools,
}

// categoryNames maps categories to display names
var categoryNames = map[doctor.Category]string{
	doctor.CategoryClient: "Client",
	doctor.CategoryPaths:  "Paths",
	doctor.CategoryConfig: "Configuration",
	doctor.CategoryTools:  "Install Tools",
}

// SimpleReporter prints a plain checklist. It is used when color is off.
type SimpleReporter struct {
	out  io.Writer
	home string
}

// NewSimpleReporter creates a SimpleReporter writing to out. home is
// replaced with ~ in messages when non-empty.
func NewSimpleReporter(out io.Writer, home string) *SimpleReporter {
	return &SimpleReporter{out: out, home: home}
}

// Report outputs the results in a simple checklist format
func (r *SimpleReporter) Report(results []doctor.CheckResult, verbose bool) {
	_, _ = fmt.Fprintln(r.out, header)
	_, _ = fmt.Fprintln(r.out)

	for _, g := range groupByCategory(results) {
		_, _ = fmt.Fprintf(r.out, "%s:\n", categoryName(g.Category))

		for _, result := range g.Results {
			r.printResult(result, verbose)
		}

		_, _ = fmt.Fprintln(r.out)
	}

	errs, warnings, passed := countResults(results)

	_, _ = fmt.Fprintf(r.out, "Summary: %d error(s), %d warning(s), %d passed\n", errs, warnings, passed)
}

func (r *SimpleReporter) printResult(result doctor.CheckResult, verbose bool) {
	line := fmt.Sprintf("  %s %s", StatusIcon(result), result.Name)
	if result.Message != "" {
		line += " - " + shortenPath(result.Message, r.home)
	}

	_, _ = fmt.Fprintln(r.out, line)

	if verbose {
		for _, detail := range result.Details {
			_, _ = fmt.Fprintf(r.out, "     %s\n", shortenPath(detail, r.home))
		}
	}

	if result.HasFix() && result.Status == doctor.StatusFail {
		_, _ = fmt.Fprintln(r.out, "     -> Run: clientup doctor --fix")
	}
}

type categoryGroup struct {
	Category doctor.Category
	Results  []doctor.CheckResult
}

// groupByCategory groups results in display order. Unknown categories follow
// the known ones in first-seen order.
func groupByCategory(results []doctor.CheckResult) []categoryGroup {
	byCat := make(map[doctor.Category][]doctor.CheckResult)

	var extra []doctor.Category

	for _, result := range results {
		if _, seen := byCat[result.Category]; !seen && !isKnownCategory(result.Category) {
			extra = append(extra, result.Category)
		}

		byCat[result.Category] = append(byCat[result.Category], result)
	}

	var groups []categoryGroup

	for _, cat := range append(append([]doctor.Category{}, categoryOrder...), extra...) {
		if rs, ok := byCat[cat]; ok {
			groups = append(groups, categoryGroup{Category: cat, Results: rs})
		}
	}

	return groups
}

func isKnownCategory(cat doctor.Category) bool {
	_, ok := categoryNames[cat]

	return ok
}

func categoryName(category doctor.Category) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}

	s := string(category)
	if s == "" {
		return "Other"
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// StatusIcon returns a single-width icon for a check result.
func StatusIcon(result doctor.CheckResult) string {
	switch result.Status {
	case doctor.StatusPass:
		return "✓"
	case doctor.StatusFail:
		switch result.Severity {
		case doctor.SeverityError:
			return "✗"
		case doctor.SeverityWarning:
			return "!"
		default:
			return "i"
		}
	case doctor.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

func countResults(results []doctor.CheckResult) (errs, warnings, passed int) {
	for _, result := range results {
		switch {
		case result.IsPassed():
			passed++
		case result.IsError():
			errs++
		case result.IsWarning():
			warnings++
		}
	}

	return errs, warnings, passed
}

// shortenPath replaces the home directory prefix with ~.
func shortenPath(s, home string) string {
	if home == "" {
		return s
	}

	return strings.ReplaceAll(s, home, "~")
}

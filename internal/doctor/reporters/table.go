package reporters

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/smykla-skalski/clientup/internal/color"
	"github.com/smykla-skalski/clientup/internal/doctor"
)

const (
	minTableWidth   = 40
	minMessageWidth = 20
	minCheckWidth   = 5
	iconWidth       = 1
	// border plus left and right padding
	columnOverhead = 3
)

// Table renders check results as a rounded tablewriter table.
type Table struct {
	theme color.Theme
	width int
	home  string
}

// NewTable creates a Table. width is the terminal width, 0 lets columns size
// to their content.
func NewTable(theme color.Theme, width int, home string) *Table {
	return &Table{theme: theme, width: width, home: home}
}

// Render builds the table. Each category gets a header row merged across the
// text columns, and results inside a category are ordered errors first.
func (t *Table) Render(results []doctor.CheckResult, verbose bool) string {
	groups := groupByCategory(results)
	if len(groups) == 0 {
		return ""
	}

	headers := []string{"", "Check", "Message"}
	if verbose {
		headers = append(headers, "Details")
	}

	widths := columnWidths(t.width, results, verbose)

	var buf bytes.Buffer

	opts := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenRows: tw.On},
			},
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Merging().WithMode(tw.MergeHorizontal).Build().
			Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	}

	if widths != nil {
		opts = append(opts, tablewriter.WithColumnWidths(cellWidths(widths)))
	}

	tbl := tablewriter.NewTable(&buf, opts...)
	tbl.Header(headers)

	for _, g := range groups {
		heading := t.theme.Header.Render(categoryName(g.Category))

		row := []string{""}
		for range headers[1:] {
			row = append(row, heading)
		}

		_ = tbl.Append(row)

		sorted := slices.Clone(g.Results)
		slices.SortStableFunc(sorted, func(a, b doctor.CheckResult) int {
			return severityRank(a) - severityRank(b)
		})

		for _, r := range sorted {
			_ = tbl.Append(t.row(r, verbose, widths))
		}
	}

	_ = tbl.Render()

	return t.dimBorders(strings.TrimRight(buf.String(), "\n"))
}

func (t *Table) row(r doctor.CheckResult, verbose bool, widths map[int]int) []string {
	cells := []string{
		StyledIcon(r, t.theme),
		t.theme.CheckName.Render(r.Name),
		shortenPath(r.Message, t.home),
	}

	if verbose {
		cells = append(cells, shortenPath(strings.Join(r.Details, "; "), t.home))
	}

	for i, cell := range cells {
		if w, ok := widths[i]; ok {
			cells[i] = padToWidth(cell, w)
		}
	}

	return cells
}

func (t *Table) dimBorders(s string) string {
	if !t.theme.HasColor() {
		return s
	}

	for _, ch := range []string{"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼"} {
		s = strings.ReplaceAll(s, ch, t.theme.Muted.Render(ch))
	}

	return s
}

// Summary returns the colored one-line tally.
func (t *Table) Summary(results []doctor.CheckResult) string {
	errs, warnings, passed := countResults(results)

	skipped := 0

	for _, r := range results {
		if r.IsSkipped() {
			skipped++
		}
	}

	parts := []string{
		highlight(fmt.Sprintf("%d error(s)", errs), errs > 0, t.theme.Fail),
		highlight(fmt.Sprintf("%d warning(s)", warnings), warnings > 0, t.theme.Warning),
		t.theme.Pass.Render(fmt.Sprintf("%d passed", passed)),
	}

	if skipped > 0 {
		parts = append(parts, t.theme.Skip.Render(fmt.Sprintf("%d skipped", skipped)))
	}

	return "Summary: " + strings.Join(parts, ", ")
}

func highlight(text string, active bool, style lipgloss.Style) string {
	if active {
		return style.Render(text)
	}

	return text
}

// StyledIcon returns a StatusIcon colored by the theme.
func StyledIcon(result doctor.CheckResult, theme color.Theme) string {
	icon := StatusIcon(result)

	switch {
	case result.IsPassed():
		return theme.Pass.Render(icon)
	case result.IsError():
		return theme.Fail.Render(icon)
	case result.Status == doctor.StatusFail:
		return theme.Warning.Render(icon)
	case result.IsSkipped():
		return theme.Skip.Render(icon)
	default:
		return icon
	}
}

// columnWidths splits the terminal width between the columns. It returns nil
// when there is no terminal or it is too narrow, leaving sizing to
// tablewriter.
func columnWidths(width int, results []doctor.CheckResult, verbose bool) map[int]int {
	if width < minTableWidth {
		return nil
	}

	checkW := len("Check")

	for _, r := range results {
		checkW = max(checkW, runewidth.StringWidth(r.Name))
	}

	cols := 3
	if verbose {
		cols = 4
	}

	available := width - (cols*columnOverhead + 1) - iconWidth
	if available < minMessageWidth+minCheckWidth {
		return nil
	}

	checkW = min(checkW, available-minMessageWidth)
	rest := available - checkW

	widths := map[int]int{0: iconWidth, 1: checkW, 2: rest}

	if verbose {
		msgW := rest * 60 / 100 //nolint:mnd // message gets the larger share
		widths[2] = msgW
		widths[3] = rest - msgW
	}

	return widths
}

// cellWidths adds the left and right padding tablewriter subtracts again
// before wrapping.
func cellWidths(content map[int]int) tw.Mapper[int, int] {
	m := make(tw.Mapper[int, int], len(content))
	for col, w := range content {
		m[col] = w + 2 //nolint:mnd // one space each side
	}

	return m
}

// padToWidth right-pads s to display width w, ignoring ANSI escapes.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

func severityRank(r doctor.CheckResult) int {
	switch {
	case r.IsError():
		return 0
	case r.IsWarning():
		return 1
	case r.IsSkipped():
		return 3 //nolint:mnd // skipped sorts last
	default:
		return 2 //nolint:mnd // passes sort after failures
	}
}

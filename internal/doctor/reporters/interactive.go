package reporters

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smykla-skalski/clientup/internal/color"
	"github.com/smykla-skalski/clientup/internal/doctor"
)

type checkEntry struct {
	checker doctor.HealthChecker
	result  doctor.CheckResult
	done    bool
}

// checkDoneMsg is sent when a single check finishes.
type checkDoneMsg struct {
	index  int
	result doctor.CheckResult
}

// doctorModel shows a spinner next to each pending check. It quits once
// every check has reported.
type doctorModel struct {
	ctx     context.Context //nolint:containedctx // checks run from tea commands
	entries []checkEntry
	spinner spinner.Model
	theme   color.Theme
	home    string
	done    bool
}

func newDoctorModel(
	ctx context.Context,
	checkers []doctor.HealthChecker,
	theme color.Theme,
	home string,
) doctorModel {
	entries := make([]checkEntry, len(checkers))
	for i, c := range checkers {
		entries[i] = checkEntry{checker: c}
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	if theme.HasColor() {
		s.Style = theme.Info
	}

	return doctorModel{
		ctx:     ctx,
		entries: entries,
		spinner: s,
		theme:   theme,
		home:    home,
	}
}

func (m doctorModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.entries)+1)
	cmds = append(cmds, m.spinner.Tick)

	for i, e := range m.entries {
		cmds = append(cmds, runCheck(m.ctx, i, e.checker))
	}

	return tea.Batch(cmds...)
}

func runCheck(ctx context.Context, index int, checker doctor.HealthChecker) tea.Cmd {
	return func() tea.Msg {
		result := checker.Check(ctx)
		result.Category = checker.Category()

		return checkDoneMsg{index: index, result: result}
	}
}

//nolint:ireturn // tea.Model is required by bubbletea
func (m doctorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}
	case checkDoneMsg:
		m.entries[msg.index].result = msg.result
		m.entries[msg.index].done = true

		if m.pending() == 0 {
			m.done = true

			return m, tea.Quit
		}
	}

	return m, nil
}

// View is empty once done so the final table, printed after the program
// exits, is not clipped to the terminal height.
func (m doctorModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%d left)\n\n", header, m.pending())

	for _, g := range m.groups() {
		b.WriteString(m.theme.Header.Render(categoryName(g.category)))
		b.WriteString(":\n")

		for _, e := range g.entries {
			if !e.done {
				fmt.Fprintf(&b, "  %s %s\n", m.spinner.View(), e.checker.Name())

				continue
			}

			fmt.Fprintf(&b, "  %s %s", StyledIcon(e.result, m.theme), m.theme.CheckName.Render(e.checker.Name()))

			if e.result.Message != "" {
				fmt.Fprintf(&b, " - %s", shortenPath(e.result.Message, m.home))
			}

			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}

func (m doctorModel) pending() int {
	n := 0

	for _, e := range m.entries {
		if !e.done {
			n++
		}
	}

	return n
}

// results returns what finished. Checks interrupted by a quit are skipped.
func (m doctorModel) results() []doctor.CheckResult {
	results := make([]doctor.CheckResult, len(m.entries))

	for i, e := range m.entries {
		if e.done {
			results[i] = e.result

			continue
		}

		results[i] = doctor.Skip(e.checker.Name(), "Interrupted")
		results[i].Category = e.checker.Category()
	}

	return results
}

type entryGroup struct {
	category doctor.Category
	entries  []checkEntry
}

func (m doctorModel) groups() []entryGroup {
	var groups []entryGroup

	index := map[doctor.Category]int{}

	for _, cat := range categoryOrder {
		index[cat] = len(groups)
		groups = append(groups, entryGroup{category: cat})
	}

	for _, e := range m.entries {
		cat := e.checker.Category()

		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, entryGroup{category: cat})
		}

		groups[i].entries = append(groups[i].entries, e)
	}

	nonEmpty := groups[:0]

	for _, g := range groups {
		if len(g.entries) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	return nonEmpty
}

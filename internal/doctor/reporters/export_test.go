package reporters

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smykla-skalski/clientup/internal/color"
	"github.com/smykla-skalski/clientup/internal/doctor"
)

var (
	PadToWidth   = padToWidth
	ColumnWidths = columnWidths
	SeverityRank = severityRank
	ShortenPath  = shortenPath
)

//nolint:ireturn // test helper returning tea.Model
func NewModelForTest(checkers []doctor.HealthChecker, theme color.Theme) tea.Model {
	return newDoctorModel(context.Background(), checkers, theme, "")
}

// ModelResultsForTest extracts results from a doctorModel.
func ModelResultsForTest(m tea.Model) []doctor.CheckResult {
	dm, ok := m.(doctorModel)
	if !ok {
		return nil
	}

	return dm.results()
}

// CheckDoneForTest builds the message a finished check sends.
func CheckDoneForTest(index int, result doctor.CheckResult) tea.Msg {
	return checkDoneMsg{index: index, result: result}
}

// Package color decides whether clientup output is colored and holds the
// lipgloss styles used for it.
package color

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// LookupEnv reads an environment variable. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// Enabled reports whether color output should be used. noColorFlag is the
// --no-color flag. NO_COLOR (any value, https://no-color.org), CLICOLOR=0
// and TERM=dumb disable color. CLICOLOR_FORCE=1 enables it unless the flag
// is set.
func Enabled(noColorFlag bool, lookup LookupEnv) bool {
	if noColorFlag {
		return false
	}

	if v, ok := lookup("CLICOLOR_FORCE"); ok && v != "" && v != "0" {
		return true
	}

	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}

	if v, _ := lookup("CLICOLOR"); v == "0" {
		return false
	}

	if v, _ := lookup("TERM"); v == "dumb" {
		return false
	}

	return true
}

// FromEnv is Enabled with the process environment.
func FromEnv(noColorFlag bool) bool {
	return Enabled(noColorFlag, os.LookupEnv)
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

// Width returns the terminal width of w, or 0 when w is not a terminal.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // fd fits int
	if err != nil || width < 0 {
		return 0
	}

	return width
}

// Theme holds lipgloss styles for doctor and install output.
type Theme struct {
	Pass      lipgloss.Style
	Fail      lipgloss.Style
	Warning   lipgloss.Style
	Skip      lipgloss.Style
	Info      lipgloss.Style
	Header    lipgloss.Style
	CheckName lipgloss.Style
	Muted     lipgloss.Style
	Status    lipgloss.Style
}

// NewTheme creates a Theme. When color is false all styles are empty and
// render text unchanged.
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Pass:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Fail:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Skip:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		CheckName: lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// HasColor reports whether the theme applies any styling.
func (t Theme) HasColor() bool {
	_, plain := t.Info.GetForeground().(lipgloss.NoColor)

	return !plain
}

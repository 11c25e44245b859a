package tui

import (
	"os"

	"golang.org/x/term"
)

// New returns the huh UI when stdin and stdout are a terminal and the line
// prompt UI otherwise.
//
//nolint:ireturn // callers pick behavior through the interface
func New() UI {
	return ForTerminal(IsTerminal())
}

// ForTerminal returns the UI for a known terminal state.
//
//nolint:ireturn // callers pick behavior through the interface
func ForTerminal(tty bool) UI {
	if tty {
		return NewHuhUI()
	}

	return NewFallbackUI()
}

// IsTerminal reports whether both stdin and stdout are terminals.
func IsTerminal() bool {
	//nolint:gosec // G115: fds are small
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

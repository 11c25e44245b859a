// Package tui provides terminal user interface components.
package tui

import "github.com/cockroachdb/errors"

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// UI abstracts the interactive (huh) and fallback (line prompt)
// implementations.
type UI interface {
	// ReadSecret asks for a credential without echoing it.
	ReadSecret(opts SecretOptions) (string, error)

	// Confirm asks a yes/no question.
	Confirm(title string, defaultValue bool) (bool, error)

	// IsInteractive returns true if running in an interactive terminal.
	IsInteractive() bool
}

// SecretOptions describes a credential prompt.
type SecretOptions struct {
	Title       string
	Description string
	// AllowEmpty accepts an empty answer instead of re-asking.
	AllowEmpty bool
}

package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/prompt"
)

// FallbackUI implements UI using simple stdin/stderr prompts.
// This is used when the terminal is not interactive (CI, piped input, etc.).
type FallbackUI struct {
	prompter prompt.Prompter
	out      io.Writer
}

// NewFallbackUI creates a new FallbackUI instance.
func NewFallbackUI() *FallbackUI {
	return NewFallbackUIWithPrompter(prompt.NewStdPrompter(), os.Stderr)
}

// NewFallbackUIWithPrompter creates a FallbackUI with a custom prompter.
func NewFallbackUIWithPrompter(p prompt.Prompter, out io.Writer) *FallbackUI {
	return &FallbackUI{
		prompter: p,
		out:      out,
	}
}

// IsInteractive returns false as FallbackUI is for non-interactive terminals.
func (*FallbackUI) IsInteractive() bool {
	return false
}

// ReadSecret reads one line through the prompter.
func (f *FallbackUI) ReadSecret(opts SecretOptions) (string, error) {
	if opts.Description != "" {
		_, _ = fmt.Fprintln(f.out, opts.Description)
	}

	secret, err := f.prompter.Secret(opts.Title)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}

	if secret == "" && !opts.AllowEmpty {
		return "", errors.Wrap(prompt.ErrEmptyInput, "password is required")
	}

	return secret, nil
}

// Confirm asks through the prompter.
func (f *FallbackUI) Confirm(title string, defaultValue bool) (bool, error) {
	return f.prompter.Confirm(title, defaultValue)
}

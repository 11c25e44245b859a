package tui

import (
	"charm.land/huh/v2"
	"github.com/cockroachdb/errors"
)

// HuhUI implements UI using huh forms.
type HuhUI struct{}

// NewHuhUI creates a new HuhUI instance.
func NewHuhUI() *HuhUI {
	return &HuhUI{}
}

// IsInteractive returns true as HuhUI is for interactive terminals.
func (*HuhUI) IsInteractive() bool {
	return true
}

// ReadSecret shows a masked input.
func (*HuhUI) ReadSecret(opts SecretOptions) (string, error) {
	var secret string

	if err := runForm(buildSecretInput(opts, &secret)); err != nil {
		return "", err
	}

	return secret, nil
}

// Confirm shows a yes/no selector.
func (*HuhUI) Confirm(title string, defaultValue bool) (bool, error) {
	answer := defaultValue

	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := runForm(confirm); err != nil {
		return false, err
	}

	return answer, nil
}

func buildSecretInput(opts SecretOptions, secret *string) *huh.Input {
	input := huh.NewInput().
		Title(opts.Title).
		EchoMode(huh.EchoModePassword).
		Value(secret)

	if opts.Description != "" {
		input = input.Description(opts.Description)
	}

	if !opts.AllowEmpty {
		input = input.Validate(func(s string) error {
			if s == "" {
				return errors.New("password is required")
			}

			return nil
		})
	}

	return input
}

func runForm(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}

	return err
}

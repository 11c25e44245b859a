// Package fixers provides auto-fix implementations for health check issues.
package fixers

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/prompt"
)

// ErrUserCancelled is returned when the user cancels the operation.
var ErrUserCancelled = errors.New("user cancelled operation")

// confirm asks the user when interactive and reports whether to proceed.
func confirm(prompter prompt.Prompter, interactive bool, msg string) (bool, error) {
	if !interactive || prompter == nil {
		return true, nil
	}

	confirmed, err := prompter.Confirm(msg, true)
	if err != nil {
		return false, errors.Wrap(err, "failed to get confirmation")
	}

	return confirmed, nil
}

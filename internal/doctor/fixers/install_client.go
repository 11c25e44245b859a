package fixers

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/prompt"
)

// Installer runs a client install. *installer.Installer satisfies it.
type Installer interface {
	Install(ctx context.Context, secret string) error
}

// SecretFunc obtains the credential passed to Install.
type SecretFunc func(ctx context.Context) (string, error)

// InstallClientFixer installs the client through the installer.
type InstallClientFixer struct {
	installer Installer
	secret    SecretFunc
	prompter  prompt.Prompter
}

// NewInstallClientFixer creates a new InstallClientFixer. secret may be nil
// when the platform needs no credential.
func NewInstallClientFixer(
	installer Installer,
	secret SecretFunc,
	prompter prompt.Prompter,
) *InstallClientFixer {
	return &InstallClientFixer{
		installer: installer,
		secret:    secret,
		prompter:  prompter,
	}
}

// ID returns the fixer identifier.
func (*InstallClientFixer) ID() string {
	return doctor.FixInstallClient
}

// Description returns a human-readable description.
func (*InstallClientFixer) Description() string {
	return "Install the client"
}

// CanFix checks if this fixer can fix the given result.
func (f *InstallClientFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == f.ID() && result.Status == doctor.StatusFail
}

// Fix runs the install.
func (f *InstallClientFixer) Fix(ctx context.Context, interactive bool) error {
	ok, err := confirm(f.prompter, interactive, "Download and install the client now?")
	if err != nil {
		return err
	}

	if !ok {
		return ErrUserCancelled
	}

	var secret string

	if f.secret != nil {
		secret, err = f.secret(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to read credential")
		}
	}

	if err := f.installer.Install(ctx, secret); err != nil {
		return errors.Wrap(err, "install failed")
	}

	return nil
}

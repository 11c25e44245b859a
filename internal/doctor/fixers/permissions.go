package fixers

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/config"
	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/prompt"
)

const clientPermissions = 0o755

// PermissionsFixer makes the extracted client executable and tightens a
// world-writable config file.
type PermissionsFixer struct {
	prompter   prompt.Prompter
	clientPath string
	configPath string
}

// NewPermissionsFixer creates a new PermissionsFixer. Either path may be
// empty to skip it.
func NewPermissionsFixer(prompter prompt.Prompter, clientPath, configPath string) *PermissionsFixer {
	return &PermissionsFixer{
		prompter:   prompter,
		clientPath: clientPath,
		configPath: configPath,
	}
}

// ID returns the fixer identifier.
func (*PermissionsFixer) ID() string {
	return doctor.FixPermissions
}

// Description returns a human-readable description.
func (*PermissionsFixer) Description() string {
	return "Fix file permissions for the client and configuration file"
}

// CanFix checks if this fixer can fix the given result.
func (f *PermissionsFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == f.ID() && result.Status == doctor.StatusFail
}

// Fix corrects file permissions.
func (f *PermissionsFixer) Fix(_ context.Context, interactive bool) error {
	if err := f.fixClient(interactive); err != nil {
		return err
	}

	return f.fixConfig(interactive)
}

func (f *PermissionsFixer) fixClient(interactive bool) error {
	if f.clientPath == "" {
		return nil
	}

	info, err := os.Stat(f.clientPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrap(err, "failed to stat client")
	}

	actual := info.Mode().Perm()
	if actual == clientPermissions {
		return nil
	}

	msg := fmt.Sprintf("Fix client permissions (%04o -> %04o)?", actual, clientPermissions)

	ok, err := confirm(f.prompter, interactive, msg)
	if err != nil || !ok {
		return err
	}

	if err := os.Chmod(f.clientPath, clientPermissions); err != nil {
		return errors.Wrap(err, "failed to change client permissions")
	}

	return nil
}

func (f *PermissionsFixer) fixConfig(interactive bool) error {
	if f.configPath == "" {
		return nil
	}

	info, err := os.Stat(f.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrap(err, "failed to stat config file")
	}

	actual := info.Mode().Perm()
	if actual&0o002 == 0 {
		return nil
	}

	msg := fmt.Sprintf(
		"Fix config permissions for %s (%04o -> %04o)?",
		f.configPath,
		actual,
		config.ConfigFileMode,
	)

	ok, err := confirm(f.prompter, interactive, msg)
	if err != nil || !ok {
		return err
	}

	if err := os.Chmod(f.configPath, config.ConfigFileMode); err != nil {
		return errors.Wrap(err, "failed to change config permissions")
	}

	return nil
}

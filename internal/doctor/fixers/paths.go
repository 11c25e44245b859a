package fixers

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/prompt"
	"github.com/smykla-skalski/clientup/internal/xdg"
)

// ScratchFixer removes a download scratch directory left behind by an
// interrupted install.
type ScratchFixer struct {
	prompter prompt.Prompter
	dataDir  string
}

// NewScratchFixer creates a new ScratchFixer.
func NewScratchFixer(prompter prompt.Prompter, dataDir string) *ScratchFixer {
	return &ScratchFixer{prompter: prompter, dataDir: dataDir}
}

// ID returns the fixer identifier.
func (*ScratchFixer) ID() string {
	return doctor.FixCleanScratch
}

// Description returns a human-readable description.
func (*ScratchFixer) Description() string {
	return "Remove leftover download files"
}

// CanFix checks if this fixer can fix the given result.
func (f *ScratchFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == f.ID() && result.Status == doctor.StatusFail
}

// Fix removes the scratch directory.
func (f *ScratchFixer) Fix(_ context.Context, interactive bool) error {
	scratch := xdg.ScratchDir(f.dataDir)

	ok, err := confirm(f.prompter, interactive, "Remove "+scratch+"?")
	if err != nil || !ok {
		return err
	}

	if err := os.RemoveAll(scratch); err != nil {
		return errors.Wrapf(err, "failed to remove %s", scratch)
	}

	return nil
}

// DataDirFixer creates the data directory.
type DataDirFixer struct {
	dir string
}

// NewDataDirFixer creates a new DataDirFixer.
func NewDataDirFixer(dir string) *DataDirFixer {
	return &DataDirFixer{dir: dir}
}

// ID returns the fixer identifier.
func (*DataDirFixer) ID() string {
	return doctor.FixCreateDataDir
}

// Description returns a human-readable description.
func (*DataDirFixer) Description() string {
	return "Create the data directory"
}

// CanFix checks if this fixer can fix the given result.
func (f *DataDirFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == f.ID() && result.Status == doctor.StatusFail
}

// Fix creates the directory with owner-only permissions.
func (f *DataDirFixer) Fix(context.Context, bool) error {
	return xdg.EnsureDir(f.dir)
}

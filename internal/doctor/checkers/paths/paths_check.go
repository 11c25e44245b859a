// Package paths provides checkers for the data directory and download
// scratch space.
package paths

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/xdg"
)

// DataDirChecker checks that the data directory exists and is writable
type DataDirChecker struct {
	dir string
}

// NewDataDirChecker creates a new data directory checker
func NewDataDirChecker(dir string) *DataDirChecker {
	return &DataDirChecker{dir: dir}
}

// Name returns the name of the check
func (*DataDirChecker) Name() string {
	return "Data directory writable"
}

// Category returns the category of the check
func (*DataDirChecker) Category() doctor.Category {
	return doctor.CategoryPaths
}

// Check performs the data directory check
func (c *DataDirChecker) Check(_ context.Context) doctor.CheckResult {
	info, err := os.Stat(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return doctor.FailWarning(c.Name(), "Data directory does not exist").
				WithDetails("Expected at: " + c.dir).
				WithFixID(doctor.FixCreateDataDir)
		}

		return doctor.FailError(c.Name(), fmt.Sprintf("Failed to stat data directory: %v", err))
	}

	if !info.IsDir() {
		return doctor.FailError(c.Name(), "Data directory path is not a directory").
			WithDetails("Path: " + c.dir)
	}

	probe, err := os.CreateTemp(c.dir, ".clientup-probe-*")
	if err != nil {
		return doctor.FailError(c.Name(), "Data directory is not writable").
			WithDetails("Path: "+c.dir, fmt.Sprintf("Error: %v", err))
	}

	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return doctor.Pass(c.Name(), c.dir)
}

// ScratchChecker warns about a download scratch directory left behind by an
// interrupted install.
type ScratchChecker struct {
	dataDir string
}

// NewScratchChecker creates a new scratch directory checker
func NewScratchChecker(dataDir string) *ScratchChecker {
	return &ScratchChecker{dataDir: dataDir}
}

// Name returns the name of the check
func (*ScratchChecker) Name() string {
	return "No stale downloads"
}

// Category returns the category of the check
func (*ScratchChecker) Category() doctor.Category {
	return doctor.CategoryPaths
}

// Check performs the scratch directory check
func (c *ScratchChecker) Check(_ context.Context) doctor.CheckResult {
	scratch := xdg.ScratchDir(c.dataDir)
	if !xdg.DirExists(scratch) {
		return doctor.Pass(c.Name(), "Clean")
	}

	return doctor.FailWarning(c.Name(), "Stale download scratch directory").
		WithDetails(
			"Path: "+scratch,
			"Size: "+humanize.Bytes(dirSize(scratch)),
		).
		WithFixID(doctor.FixCleanScratch)
}

func dirSize(root string) uint64 {
	var total uint64

	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil //nolint:nilerr // size is best effort
		}

		if info, infoErr := d.Info(); infoErr == nil {
			total += uint64(info.Size()) //nolint:gosec // sizes are non-negative
		}

		return nil
	})

	return total
}

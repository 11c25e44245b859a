package strategy

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/download"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// ExecutableMode is applied to the client on macOS after extraction.
const ExecutableMode os.FileMode = 0o755

// Runner is the part of download.Pipeline the archive strategy needs.
type Runner interface {
	Run(ctx context.Context, kind platform.Kind, status download.StatusFunc) error
}

// Archive installs by downloading and unpacking a release archive.
type Archive struct {
	pipeline   Runner
	kind       platform.Kind
	clientPath string
	logger     logger.Logger
}

// NewArchive creates the macOS/Windows strategy for profile.
func NewArchive(pipeline Runner, profile platform.Profile, log logger.Logger) *Archive {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Archive{
		pipeline:   pipeline,
		kind:       profile.Kind,
		clientPath: profile.ClientPath,
		logger:     log,
	}
}

// Install runs the pipeline; on macOS it then marks the client executable.
// Pipeline failures skip the permission fix-up.
func (a *Archive) Install(ctx context.Context, _ string, status StatusFunc) error {
	if err := a.pipeline.Run(ctx, a.kind, download.StatusFunc(status)); err != nil {
		return err
	}

	if a.kind != platform.KindDarwin {
		return nil
	}

	a.logger.Debug("setting executable mode", "path", a.clientPath, "mode", ExecutableMode.String())

	if err := os.Chmod(a.clientPath, ExecutableMode); err != nil {
		return errors.Mark(errors.Wrapf(err, "chmod %s", a.clientPath), ErrPermissions)
	}

	return nil
}

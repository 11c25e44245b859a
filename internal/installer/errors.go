package installer

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/download"
	"github.com/smykla-skalski/clientup/internal/release"
	"github.com/smykla-skalski/clientup/internal/strategy"
)

var (
	// ErrUnsupportedPlatform is returned before any side effect when the
	// platform is not linux, darwin or windows.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrPresenceCheck marks a failure of the presence checker itself.
	ErrPresenceCheck = errors.New("presence check failed")

	// ErrInstallInProgress rejects an Install overlapping another on the
	// same Installer.
	ErrInstallInProgress = errors.New("install already in progress")
)

// Component errors, re-exported so callers classify with errors.Is against
// one package.
var (
	ErrDependencyInstall = strategy.ErrDependencyInstall
	ErrClientInstall     = strategy.ErrClientInstall
	ErrPermissions       = strategy.ErrPermissions
	ErrURLNotResolved    = release.ErrURLNotResolved
	ErrDownloadStream    = download.ErrStream
	ErrExtraction        = download.ErrExtraction
)

// Package strategy holds the per-platform ways of installing the client.
package strategy

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

//go:generate mockgen -source=strategy.go -destination=strategy_mock.go -package=strategy

var (
	// ErrDependencyInstall marks a failed install of the package-manager front-end.
	ErrDependencyInstall = errors.New("dependency install failed")

	// ErrClientInstall marks a failed install of the client itself.
	ErrClientInstall = errors.New("client install failed")

	// ErrPermissions marks a failed executable-bit fix-up.
	ErrPermissions = errors.New("setting client permissions failed")
)

// StatusFunc receives human-readable progress lines.
type StatusFunc func(msg string)

// Strategy installs the client. secret is the elevation credential and is
// only used where privileges are needed.
type Strategy interface {
	Install(ctx context.Context, secret string, status StatusFunc) error
}

// Deps carries what ForProfile needs to build either strategy.
type Deps struct {
	// PackageManager configures the Linux strategy.
	PackageManager PackageManagerOptions
	// Pipeline backs the archive strategy.
	Pipeline Runner
	Logger   logger.Logger
}

// ForProfile picks the strategy for the profile's platform.
//
//nolint:ireturn // callers only need the Strategy behavior
func ForProfile(profile platform.Profile, deps Deps) (Strategy, error) {
	switch profile.Kind {
	case platform.KindLinux:
		opts := deps.PackageManager
		if opts.Logger == nil {
			opts.Logger = deps.Logger
		}

		return NewPackageManager(opts), nil
	case platform.KindDarwin, platform.KindWindows:
		if deps.Pipeline == nil {
			return nil, errors.New("archive install needs a download pipeline")
		}

		return NewArchive(deps.Pipeline, profile, deps.Logger), nil
	default:
		return nil, errors.Newf("no install strategy for platform %s", profile.Kind)
	}
}

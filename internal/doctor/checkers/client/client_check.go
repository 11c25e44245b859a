// Package client provides checkers for the installed client.
package client

import (
	"context"
	"fmt"
	"os"

	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/platform"
)

const expectedPermissions = 0o755

// Presence reports whether the client is installed and where.
// *installer.Installer satisfies it.
type Presence interface {
	Check(ctx context.Context) (bool, error)
	ClientPath() string
}

// PresenceChecker checks that the client is installed
type PresenceChecker struct {
	presence Presence
}

// NewPresenceChecker creates a new client presence checker
func NewPresenceChecker(presence Presence) *PresenceChecker {
	return &PresenceChecker{presence: presence}
}

// Name returns the name of the check
func (*PresenceChecker) Name() string {
	return "Client installed"
}

// Category returns the category of the check
func (*PresenceChecker) Category() doctor.Category {
	return doctor.CategoryClient
}

// Check performs the presence check
func (c *PresenceChecker) Check(ctx context.Context) doctor.CheckResult {
	installed, err := c.presence.Check(ctx)
	if err != nil {
		return doctor.FailError(c.Name(), "Could not determine whether the client is installed").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	if !installed {
		return doctor.FailError(c.Name(), "Client not found").
			WithDetails(
				"Expected at: "+c.presence.ClientPath(),
				"Install with: clientup install",
			).
			WithFixID(doctor.FixInstallClient)
	}

	return doctor.Pass(c.Name(), "Found at "+c.presence.ClientPath())
}

// PermissionsChecker checks that an extracted client is executable. Only
// darwin installs carry a mode fix-up, so other platforms are skipped.
type PermissionsChecker struct {
	profile platform.Profile
}

// NewPermissionsChecker creates a new permissions checker
func NewPermissionsChecker(profile platform.Profile) *PermissionsChecker {
	return &PermissionsChecker{profile: profile}
}

// Name returns the name of the check
func (*PermissionsChecker) Name() string {
	return "Client executable"
}

// Category returns the category of the check
func (*PermissionsChecker) Category() doctor.Category {
	return doctor.CategoryClient
}

// Check performs the permissions check
func (c *PermissionsChecker) Check(_ context.Context) doctor.CheckResult {
	if c.profile.Kind != platform.KindDarwin {
		return doctor.Skip(c.Name(), fmt.Sprintf("Not applicable on %s", c.profile.Kind))
	}

	info, err := os.Stat(c.profile.ClientPath)
	if err != nil {
		if os.IsNotExist(err) {
			return doctor.Skip(c.Name(), "Client not installed")
		}

		return doctor.FailError(c.Name(), fmt.Sprintf("Failed to stat client: %v", err))
	}

	perm := info.Mode().Perm()
	if perm&0o111 == 0 {
		return doctor.FailError(c.Name(), fmt.Sprintf("Client is not executable (%04o)", perm)).
			WithDetails(
				"File: "+c.profile.ClientPath,
				fmt.Sprintf("Fix with: chmod %o %s", expectedPermissions, c.profile.ClientPath),
			).
			WithFixID(doctor.FixPermissions)
	}

	return doctor.Pass(c.Name(), fmt.Sprintf("Mode %04o", perm))
}

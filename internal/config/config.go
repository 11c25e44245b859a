// Package config loads clientup configuration from defaults, TOML, the
// environment and CLI flags.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNegativeDuration is returned when a negative duration is provided.
var ErrNegativeDuration = errors.New("duration must be non-negative")

// Config is the root configuration.
type Config struct {
	Client   ClientConfig   `koanf:"client"`
	Release  ReleaseConfig  `koanf:"release"`
	Linux    LinuxConfig    `koanf:"linux"`
	Paths    PathsConfig    `koanf:"paths"`
	Timeouts TimeoutsConfig `koanf:"timeouts"`
}

// ClientConfig names the client being installed.
type ClientConfig struct {
	// Name is the command name on Linux and the binary name elsewhere.
	Name string `koanf:"name"`
	// Package is the pip package name.
	Package string `koanf:"package"`
}

// ReleaseConfig selects where archives come from on macOS and Windows.
type ReleaseConfig struct {
	ManifestURL string `koanf:"manifest_url"`
	// Repository switches to the GitHub releases API when set ("owner/repo").
	Repository string `koanf:"repository"`
	// Version pins a release tag. Only honored with Repository.
	Version   string `koanf:"version"`
	UserAgent string `koanf:"user_agent"`
	// APIURL overrides the GitHub API root.
	APIURL string `koanf:"api_url"`
}

// UsesGitHub reports whether releases come from the GitHub API.
func (r ReleaseConfig) UsesGitHub() bool {
	return r.Repository != ""
}

// LinuxConfig configures the package-manager install.
type LinuxConfig struct {
	PackageManager    string   `koanf:"package_manager"`
	DependencyInstall []string `koanf:"dependency_install"`
}

// PathsConfig overrides XDG locations.
type PathsConfig struct {
	DataDir string `koanf:"data_dir"`
}

// TimeoutsConfig bounds network, subprocess and whole-install time.
type TimeoutsConfig struct {
	HTTP    Duration `koanf:"http"`
	Command Duration `koanf:"command"`
	Install Duration `koanf:"install"`
}

// Duration wraps time.Duration for TOML parsing.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

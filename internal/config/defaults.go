package config

import (
	"time"

	"github.com/smykla-skalski/clientup/internal/release"
	"github.com/smykla-skalski/clientup/internal/strategy"
)

const (
	// DefaultClientName is the command and binary name of the client.
	DefaultClientName = "client"

	// DefaultManifestURL lists the client's latest release assets.
	DefaultManifestURL = "https://api.github.com/repos/example/client/releases/latest"

	// DefaultHTTPTimeout bounds each HTTP request, including the archive body.
	DefaultHTTPTimeout = 5 * time.Minute

	// DefaultCommandTimeout bounds each package-manager command.
	DefaultCommandTimeout = 10 * time.Minute

	// DefaultInstallTimeout bounds a whole install.
	DefaultInstallTimeout = 30 * time.Minute
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Name:    DefaultClientName,
			Package: DefaultClientName,
		},
		Release: ReleaseConfig{
			ManifestURL: DefaultManifestURL,
			UserAgent:   release.DefaultUserAgent,
		},
		Linux: LinuxConfig{
			PackageManager:    strategy.DefaultPackageManager,
			DependencyInstall: strategy.DefaultDependencyInstall(),
		},
		Timeouts: TimeoutsConfig{
			HTTP:    Duration(DefaultHTTPTimeout),
			Command: Duration(DefaultCommandTimeout),
			Install: Duration(DefaultInstallTimeout),
		},
	}
}

// defaultsToMap mirrors DefaultConfig as a koanf map.
func defaultsToMap() map[string]any {
	cfg := DefaultConfig()

	return map[string]any{
		"client": map[string]any{
			"name":    cfg.Client.Name,
			"package": cfg.Client.Package,
		},
		"release": map[string]any{
			"manifest_url": cfg.Release.ManifestURL,
			"repository":   "",
			"version":      "",
			"user_agent":   cfg.Release.UserAgent,
			"api_url":      "",
		},
		"linux": map[string]any{
			"package_manager":    cfg.Linux.PackageManager,
			"dependency_install": cfg.Linux.DependencyInstall,
		},
		"paths": map[string]any{
			"data_dir": "",
		},
		"timeouts": map[string]any{
			"http":    DefaultHTTPTimeout.String(),
			"command": DefaultCommandTimeout.String(),
			"install": DefaultInstallTimeout.String(),
		},
	}
}

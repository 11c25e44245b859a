// Package xdg provides centralized path management following XDG Base Directory conventions.
// All user-level paths clientup touches on disk are defined here.
package xdg

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "clientup"

const (
	// ScratchDirName is the subdirectory of the data dir used to stage downloads.
	ScratchDirName = "tmp"

	// LogFileEnv overrides the log file location.
	LogFileEnv = "CLIENTUP_LOG_FILE"
)

var userHome = os.UserHomeDir

func homeOr(fallback string, elem ...string) string {
	home, err := userHome()
	if err != nil {
		home = fallback
	}

	return filepath.Join(append([]string{home}, elem...)...)
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}

	return homeOr("~", ".config")
}

// DataHome returns $XDG_DATA_HOME, %LOCALAPPDATA% on Windows, or ~/.local/share.
func DataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}

	if runtime.GOOS == "windows" {
		if v := os.Getenv("LOCALAPPDATA"); v != "" {
			return v
		}
	}

	return homeOr("~", ".local", "share")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}

	return homeOr("~", ".local", "state")
}

// ConfigDir returns ConfigHome()/clientup.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// DataDir returns DataHome()/clientup. Installed clients live here on
// macOS and Windows.
func DataDir() string {
	return filepath.Join(DataHome(), appName)
}

// StateDir returns StateHome()/clientup.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// GlobalConfigFile returns ConfigDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogFile returns the log file path.
// Respects CLIENTUP_LOG_FILE, otherwise StateDir()/clientup.log.
func LogFile() string {
	if v := os.Getenv(LogFileEnv); v != "" {
		return v
	}

	return filepath.Join(StateDir(), appName+".log")
}

// ScratchDir returns the download staging directory under dataDir.
func ScratchDir(dataDir string) string {
	return filepath.Join(dataDir, ScratchDirName)
}

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// EnsureDir creates a directory with 0700 permissions if it doesn't exist,
// and tightens permissions on existing directories if they're too open.
func EnsureDir(path string) error {
	const dirMode = 0o700

	if err := os.MkdirAll(path, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat directory %s", path)
	}

	if info.Mode().Perm()&0o077 != 0 {
		if err := os.Chmod(path, dirMode); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", path)
		}
	}

	return nil
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

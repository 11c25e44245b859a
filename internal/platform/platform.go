// Package platform identifies the host operating system and the layout the
// installed client follows on it.
package platform

import (
	"path/filepath"
	"strings"
)

//go:generate enumer -type=Kind -trimprefix=Kind -transform=lower -text
//go:generate go run github.com/smykla-skalski/clientup/tools/enumerfix kind_enumer.go

// Kind is the closed set of platforms the installer knows about.
type Kind int

const (
	KindUnknown Kind = iota
	KindLinux
	KindDarwin
	KindWindows
)

// Detect maps a GOOS-style name to a Kind. "win32" is accepted as an alias
// for windows.
func Detect(goos string) Kind {
	switch strings.ToLower(goos) {
	case "linux":
		return KindLinux
	case "darwin":
		return KindDarwin
	case "windows", "win32":
		return KindWindows
	default:
		return KindUnknown
	}
}

// Supported reports whether an install strategy exists for k.
func (k Kind) Supported() bool {
	return k != KindUnknown && k.IsAKind()
}

// UsesArchive reports whether the client ships as a downloaded archive
// rather than through a package manager.
func (k Kind) UsesArchive() bool {
	return k == KindDarwin || k == KindWindows
}

// Profile is the immutable per-platform install layout.
type Profile struct {
	Kind       Kind
	ClientPath string
}

// NewProfile builds the profile for kind. On Linux the client path is the
// bare command name resolved through the search path. On macOS and Windows
// it is rooted under dataDir.
func NewProfile(kind Kind, dataDir, clientName string) Profile {
	return Profile{
		Kind:       kind,
		ClientPath: clientPath(kind, dataDir, clientName),
	}
}

func clientPath(kind Kind, dataDir, clientName string) string {
	switch kind {
	case KindLinux:
		return clientName
	case KindDarwin:
		return joinPath("/", dataDir, clientName)
	case KindWindows:
		return joinPath(`\`, dataDir, clientName+".exe")
	default:
		return ""
	}
}

// joinPath joins with an explicit separator so profiles for other platforms
// can be built and inspected from any host.
func joinPath(sep, dir, name string) string {
	if filepath.Separator == sep[0] {
		return filepath.Join(dir, name)
	}

	return strings.TrimRight(dir, sep) + sep + name
}

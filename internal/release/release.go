// Package release resolves the download URL of the client archive for a
// platform from a release listing.
package release

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"

	"github.com/smykla-skalski/clientup/internal/platform"
)

// Platform tags embedded in asset names.
const (
	TagDarwin  = "osx32"
	TagLinux   = "debian32"
	TagWindows = "win32"
)

// ErrURLNotResolved is returned when no asset matches the platform tag.
var ErrURLNotResolved = errors.New("download URL not resolved")

// Source lists the assets of the release to install.
type Source interface {
	Fetch(ctx context.Context) (*github.RepositoryRelease, error)
}

// Target is a resolved download.
type Target struct {
	URL       string
	AssetName string
	// Tag is the platform tag that matched AssetName.
	Tag string
	// Version is the release tag, semver-normalized when it parses.
	Version string
	Size    int64
}

// TagFor maps a platform to the asset-name substring that identifies it.
// Anything that is not macOS or Linux gets the Windows tag.
func TagFor(kind platform.Kind) string {
	switch kind {
	case platform.KindDarwin:
		return TagDarwin
	case platform.KindLinux:
		return TagLinux
	default:
		return TagWindows
	}
}

// SelectAsset returns the first asset, in listing order, whose name contains
// the platform tag.
func SelectAsset(release *github.RepositoryRelease, kind platform.Kind) (Target, error) {
	tag := TagFor(kind)

	for _, asset := range release.Assets {
		if asset == nil || !strings.Contains(asset.GetName(), tag) {
			continue
		}

		if asset.GetBrowserDownloadURL() == "" {
			continue
		}

		return Target{
			URL:       asset.GetBrowserDownloadURL(),
			AssetName: asset.GetName(),
			Tag:       tag,
			Version:   NormalizeVersion(release.GetTagName()),
			Size:      int64(asset.GetSize()),
		}, nil
	}

	return Target{}, errors.Wrapf(ErrURLNotResolved, "no asset matching %q", tag)
}

// NormalizeVersion renders a release tag as plain semver ("v1.2" -> "1.2.0").
// Tags that are not semver are returned unchanged.
func NormalizeVersion(tag string) string {
	if tag == "" {
		return ""
	}

	v, err := semver.NewVersion(tag)
	if err != nil {
		return tag
	}

	return v.String()
}

// Resolver turns a Source into a Target for one platform.
type Resolver struct {
	source Source
}

// NewResolver creates a Resolver reading from source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve fetches the release listing and picks the asset for kind.
func (r *Resolver) Resolve(ctx context.Context, kind platform.Kind) (Target, error) {
	rel, err := r.source.Fetch(ctx)
	if err != nil {
		return Target{}, errors.Mark(errors.Wrap(err, "fetching release manifest"), ErrURLNotResolved)
	}

	return SelectAsset(rel, kind)
}

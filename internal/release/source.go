package release

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"

	ghclient "github.com/smykla-skalski/clientup/internal/github"
)

// DefaultUserAgent is sent with manifest requests.
const DefaultUserAgent = "clientup"

// maxManifestBytes caps the manifest body.
const maxManifestBytes = 4 << 20

// ManifestSource GETs a release listing JSON document from a fixed URL.
type ManifestSource struct {
	client    *http.Client
	url       string
	userAgent string
}

// NewManifestSource creates a source for url. A nil client uses http.DefaultClient.
func NewManifestSource(client *http.Client, url, userAgent string) *ManifestSource {
	if client == nil {
		client = http.DefaultClient
	}

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &ManifestSource{client: client, url: url, userAgent: userAgent}
}

// Fetch downloads and decodes the manifest.
//
//nolint:gosec // G107: URL comes from configuration
func (s *ManifestSource) Fetch(ctx context.Context) (*github.RepositoryRelease, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "requesting manifest")
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("manifest request failed: HTTP %d", resp.StatusCode)
	}

	var rel github.RepositoryRelease

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxManifestBytes))
	if err := dec.Decode(&rel); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}

	return &rel, nil
}

// GitHubSource reads the release from the GitHub API.
type GitHubSource struct {
	client  ghclient.Client
	owner   string
	repo    string
	version string
}

// NewGitHubSource creates a source for owner/repo. An empty version means
// the latest release; otherwise the version must be a valid semver tag.
func NewGitHubSource(client ghclient.Client, repository, version string) (*GitHubSource, error) {
	owner, repo, err := ghclient.SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	if version != "" {
		if _, err := semver.NewVersion(version); err != nil {
			return nil, errors.Wrapf(err, "invalid pinned version %q", version)
		}
	}

	return &GitHubSource{client: client, owner: owner, repo: repo, version: version}, nil
}

// Fetch returns the pinned release or the latest one.
func (s *GitHubSource) Fetch(ctx context.Context) (*github.RepositoryRelease, error) {
	return s.client.GetRelease(ctx, s.owner, s.repo, s.version)
}

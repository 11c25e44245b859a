// Package github fetches client releases from the GitHub API.
package github

//go:generate mockgen -source=client.go -destination=client_mock.go -package=github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"

	execpkg "github.com/smykla-skalski/clientup/internal/exec"
)

// ghAuthTimeout bounds the gh auth token fallback.
const ghAuthTimeout = 5 * time.Second

var (
	// ErrRateLimitExceeded is returned when GitHub API rate limit is exceeded
	ErrRateLimitExceeded = errors.New("github API rate limit exceeded")
	// ErrReleaseNotFound is returned when the repository or release tag does not exist
	ErrReleaseNotFound = errors.New("release not found")
)

// Client defines the GitHub API operations the installer needs.
type Client interface {
	// GetRelease returns the release for tag, or the latest release when tag is empty.
	GetRelease(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error)
}

// SDKClient implements Client using the go-github SDK.
type SDKClient struct {
	client *github.Client
}

// Option configures an SDKClient.
type Option func(*clientOptions)

type clientOptions struct {
	token     string
	baseURL   string
	userAgent string
}

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// WithBaseURL points the client at a different API root (GitHub Enterprise, tests).
func WithBaseURL(raw string) Option {
	return func(o *clientOptions) { o.baseURL = raw }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// NewClient creates a GitHub client on top of httpClient (nil uses the default).
func NewClient(httpClient *http.Client, opts ...Option) (*SDKClient, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := github.NewClient(httpClient)

	if o.token != "" {
		client = client.WithAuthToken(o.token)
	}

	if o.baseURL != "" {
		raw := o.baseURL
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}

		u, err := url.Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing GitHub API URL %q", o.baseURL)
		}

		client.BaseURL = u
	}

	if o.userAgent != "" {
		client.UserAgent = o.userAgent
	}

	return &SDKClient{client: client}, nil
}

// GetRelease fetches a tagged or the latest release.
func (c *SDKClient) GetRelease(
	ctx context.Context,
	owner, repo, tag string,
) (*github.RepositoryRelease, error) {
	var (
		release *github.RepositoryRelease
		resp    *github.Response
		err     error
	)

	if tag == "" {
		release, resp, err = c.client.Repositories.GetLatestRelease(ctx, owner, repo)
	} else {
		release, resp, err = c.client.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	}

	if err != nil {
		return nil, handleError(resp, err, owner, repo)
	}

	return release, nil
}

// handleError converts GitHub API errors to our error types.
func handleError(resp *github.Response, err error, owner, repo string) error {
	if resp == nil {
		return errors.Wrapf(err, "fetching release of %s/%s", owner, repo)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.Wrapf(ErrReleaseNotFound, "%s/%s", owner, repo)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Rate.Remaining == 0 {
			return errors.WithSecondaryError(ErrRateLimitExceeded, err)
		}
	}

	return errors.Wrapf(err, "fetching release of %s/%s", owner, repo)
}

// TokenFromEnv finds a GitHub token in GH_TOKEN, GITHUB_TOKEN, or the gh CLI.
// It returns an empty string when none is available.
func TokenFromEnv(runner execpkg.CommandRunner, tools execpkg.ToolChecker) string {
	for _, name := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if token := os.Getenv(name); token != "" {
			return token
		}
	}

	if runner == nil || tools == nil || !tools.IsAvailable("gh") {
		return ""
	}

	result := runner.RunWithTimeout(ghAuthTimeout, "gh", "auth", "token")
	if result.Failed() {
		return ""
	}

	return strings.TrimSpace(result.Stdout)
}

// SplitRepository parses "owner/repo".
func SplitRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", errors.Newf("repository must be in owner/repo form, got %q", s)
	}

	return owner, repo, nil
}

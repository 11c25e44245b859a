// Package download streams the client archive to a scratch directory and
// unpacks it into the data directory.
package download

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/progress"
)

// ErrStream marks failures while receiving the archive body.
var ErrStream = errors.New("download stream failed")

// Downloader handles HTTP downloads.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a new Downloader with the given HTTP client.
func NewDownloader(client *http.Client, userAgent string) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Downloader{client: client, userAgent: userAgent}
}

// DownloadToFile streams url into destPath, calling report after every chunk.
// The file is closed before DownloadToFile returns.
//
//nolint:gosec // G304/G107: URL comes from the release listing, destPath is our scratch dir
func (d *Downloader) DownloadToFile(
	ctx context.Context,
	url, destPath string,
	report progress.Func,
) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "creating request")
	}

	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "downloading archive"), ErrStream)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Mark(errors.Errorf("download failed: HTTP %d", resp.StatusCode), ErrStream)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return 0, errors.Wrap(err, "creating destination file")
	}

	reader := progress.NewReader(resp.Body, resp.ContentLength, report)

	if _, copyErr := io.Copy(out, reader); copyErr != nil {
		_ = out.Close()

		return reader.Received(), errors.Mark(errors.Wrap(copyErr, "writing download to file"), ErrStream)
	}

	if err := out.Close(); err != nil {
		return reader.Received(), errors.Wrap(err, "closing downloaded file")
	}

	return reader.Received(), nil
}

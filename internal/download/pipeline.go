package download

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/smykla-skalski/clientup/internal/archive"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/progress"
	"github.com/smykla-skalski/clientup/internal/release"
	"github.com/smykla-skalski/clientup/internal/xdg"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// ErrExtraction marks failures while unpacking the archive.
var ErrExtraction = errors.New("archive extraction failed")

// StatusFunc receives human-readable progress lines.
type StatusFunc func(msg string)

// Pipeline resolves, downloads, and extracts the client archive.
type Pipeline struct {
	resolver   *release.Resolver
	downloader *Downloader
	extractor  archive.Extractor
	dataDir    string
	logger     logger.Logger
}

// NewPipeline wires a pipeline that installs into dataDir.
func NewPipeline(
	resolver *release.Resolver,
	downloader *Downloader,
	extractor archive.Extractor,
	dataDir string,
	log logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Pipeline{
		resolver:   resolver,
		downloader: downloader,
		extractor:  extractor,
		dataDir:    dataDir,
		logger:     log,
	}
}

// ScratchDir returns the staging directory removed after every run.
func (p *Pipeline) ScratchDir() string {
	return xdg.ScratchDir(p.dataDir)
}

// Run installs the archive for kind. The scratch directory is removed on
// every return path.
func (p *Pipeline) Run(ctx context.Context, kind platform.Kind, status StatusFunc) (err error) {
	if status == nil {
		status = func(string) {}
	}

	target, err := p.resolver.Resolve(ctx, kind)
	if err != nil {
		return err
	}

	p.logger.Info("resolved download", "url", target.URL, "version", target.Version)
	status("Downloading " + target.AssetName)

	scratch := p.ScratchDir()
	if err := os.MkdirAll(scratch, 0o700); err != nil {
		return errors.Wrap(err, "creating scratch directory")
	}

	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			p.logger.Error("failed to remove scratch directory", "path", scratch, "error", rmErr)

			if err == nil {
				err = errors.Wrap(rmErr, "removing scratch directory")
			}
		}
	}()

	archivePath := filepath.Join(scratch, archiveFileName(target))

	received, err := p.downloader.DownloadToFile(ctx, target.URL, archivePath,
		func(received, _ int64) {
			status(progress.DownloadedMessage(received))
		})
	if err != nil {
		return err
	}

	//nolint:gosec // G115: received is a byte count, never negative
	p.logger.Info("download complete", "size", humanize.Bytes(uint64(received)))
	status("Extracting " + target.AssetName)

	if err := p.extractor.Extract(archivePath, p.dataDir); err != nil {
		return errors.Mark(errors.Wrap(err, "extracting archive"), ErrExtraction)
	}

	return nil
}

// archiveFileName keeps the asset name, falling back to the URL's last path
// element. The format is detected from this name.
func archiveFileName(target release.Target) string {
	name := filepath.Base(target.AssetName)
	if name != "." && name != string(filepath.Separator) && name != "" {
		return name
	}

	if u, err := url.Parse(target.URL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}

	return "client-archive.zip"
}

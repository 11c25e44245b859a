// Package archive unpacks downloaded client archives.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// ErrUnsupportedFormat is returned for archives that are neither zip nor tar.gz.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Extractor unpacks an archive file into a directory.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// Format identifies an archive layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTarGz
)

// DetectFormat picks the format from the file name.
func DetectFormat(name string) Format {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	default:
		return FormatUnknown
	}
}

// AutoExtractor dispatches on DetectFormat.
type AutoExtractor struct{}

// NewExtractor returns an Extractor handling zip and tar.gz archives.
func NewExtractor() *AutoExtractor {
	return &AutoExtractor{}
}

// Extract unpacks archivePath into destDir, overwriting existing files.
func (*AutoExtractor) Extract(archivePath, destDir string) error {
	switch DetectFormat(archivePath) {
	case FormatZip:
		return ExtractZip(archivePath, destDir)
	case FormatTarGz:
		return ExtractTarGz(archivePath, destDir)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Base(archivePath))
	}
}

// ExtractZip unpacks a .zip archive into destDir.
func ExtractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening zip archive")
	}
	defer r.Close() //nolint:errcheck // read-only zip

	for _, f := range r.File {
		dest, err := safePath(destDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, dirMode); err != nil {
				return errors.Wrapf(err, "creating directory %s", f.Name)
			}

			continue
		}

		if !f.Mode().IsRegular() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, "opening zip entry %s", f.Name)
		}

		writeErr := writeFile(dest, rc, f.Mode())

		_ = rc.Close()

		if writeErr != nil {
			return writeErr
		}
	}

	return nil
}

// ExtractTarGz unpacks a .tar.gz archive into destDir.
//
//nolint:gosec // G304: archivePath is the file we just downloaded
func ExtractTarGz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer f.Close() //nolint:errcheck // read-only file

	gz, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "creating gzip reader")
	}
	defer gz.Close() //nolint:errcheck // read-only decompressor

	tr := tar.NewReader(gz)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return errors.Wrap(err, "reading tar entry")
		}

		dest, err := safePath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, dirMode); err != nil {
				return errors.Wrapf(err, "creating directory %s", header.Name)
			}
		case tar.TypeReg:
			if err := writeFile(dest, tr, header.FileInfo().Mode()); err != nil {
				return err
			}
		}
	}
}

// safePath validates that name resolves to a path within baseDir, preventing
// path traversal (Zip Slip) attacks from crafted archive entries.
func safePath(baseDir, name string) (string, error) {
	cleanBase := filepath.Clean(baseDir)
	dest := filepath.Join(cleanBase, name)

	if dest != cleanBase && !strings.HasPrefix(dest, cleanBase+string(os.PathSeparator)) {
		return "", errors.Errorf("path traversal attempt: %q escapes %q", name, baseDir)
	}

	return dest, nil
}

// writeFile replaces dest with the contents of r. The archive's permission
// bits are kept when present.
//
//nolint:gosec // G304: dest was checked by safePath
func writeFile(dest string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), dirMode); err != nil {
		return errors.Wrapf(err, "creating parent of %s", dest)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = fileMode
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrap(err, "creating extracted file")
	}

	//nolint:gosec // G110: archive comes from the configured release source
	_, copyErr := io.Copy(out, r)

	if closeErr := out.Close(); closeErr != nil && copyErr == nil {
		return errors.Wrap(closeErr, "closing extracted file")
	}

	if copyErr != nil {
		return errors.Wrapf(copyErr, "extracting %s", filepath.Base(dest))
	}

	return nil
}

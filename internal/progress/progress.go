// Package progress turns byte counts from a download stream into status lines.
package progress

import (
	"fmt"
	"io"
)

const bytesPerMegabyte = 1024 * 1024

// FormatMegabytes renders n bytes as mebibytes with two decimals, e.g. "0.50mb".
func FormatMegabytes(n int64) string {
	return fmt.Sprintf("%.2fmb", float64(n)/bytesPerMegabyte)
}

// DownloadedMessage is the status line emitted after each received chunk.
func DownloadedMessage(received int64) string {
	return "Downloaded " + FormatMegabytes(received)
}

// Func receives the running total after every chunk. Total is -1 when the
// server sent no Content-Length.
type Func func(received, total int64)

// Reader wraps an io.Reader and reports the running total after each
// non-empty read.
type Reader struct {
	reader   io.Reader
	total    int64
	received int64
	report   Func
}

// NewReader wraps r. A nil report makes the reader a plain passthrough.
func NewReader(r io.Reader, total int64, report Func) *Reader {
	return &Reader{reader: r, total: total, report: report}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.received += int64(n)

		if r.report != nil {
			r.report(r.received, r.total)
		}
	}

	return n, err
}

// Received returns the number of bytes read so far.
func (r *Reader) Received() int64 {
	return r.received
}

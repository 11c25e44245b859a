package download_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/clientup/internal/archive"
	"github.com/smykla-skalski/clientup/internal/download"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/release"
)

func zipBytes(files map[string]string) []byte {
	var buf bytes.Buffer

	w := zip.NewWriter(&buf)
	for name, body := range files {
		fw, err := w.Create(name)
		Expect(err).NotTo(HaveOccurred())

		_, err = fw.Write([]byte(body))
		Expect(err).NotTo(HaveOccurred())
	}

	Expect(w.Close()).To(Succeed())

	return buf.Bytes()
}

// releaseServer serves a manifest at / and assets under /assets/.
type releaseServer struct {
	*httptest.Server
	assets map[string]http.HandlerFunc
}

func newReleaseServer() *releaseServer {
	rs := &releaseServer{assets: map[string]http.HandlerFunc{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/manifest", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"tag_name":"v1.0.0","assets":[`+
			`{"name":"client-debian32.zip","browser_download_url":"%[1]s/assets/client-debian32.zip"},`+
			`{"name":"client-osx32.zip","browser_download_url":"%[1]s/assets/client-osx32.zip"}]}`,
			rs.URL)
	})
	mux.HandleFunc("/assets/", func(w http.ResponseWriter, r *http.Request) {
		if h, ok := rs.assets[filepath.Base(r.URL.Path)]; ok {
			h(w, r)

			return
		}

		w.WriteHeader(http.StatusNotFound)
	})

	rs.Server = httptest.NewServer(mux)

	return rs
}

var _ = Describe("Pipeline", func() {
	var (
		server   *releaseServer
		dataDir  string
		statuses []string
		pipeline *download.Pipeline
	)

	BeforeEach(func() {
		server = newReleaseServer()
		dataDir = filepath.Join(GinkgoT().TempDir(), "data")
		statuses = nil

		source := release.NewManifestSource(server.Client(), server.URL+"/manifest", "clientup-test")
		pipeline = download.NewPipeline(
			release.NewResolver(source),
			download.NewDownloader(server.Client(), "clientup-test"),
			archive.NewExtractor(),
			dataDir,
			nil,
		)
	})

	AfterEach(func() {
		server.Close()
	})

	record := func(msg string) { statuses = append(statuses, msg) }

	It("downloads, extracts, and removes the scratch directory", func() {
		payload := zipBytes(map[string]string{"client": "#!/bin/sh\necho hi\n"})
		server.assets["client-osx32.zip"] = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(payload)
		}

		Expect(pipeline.Run(context.Background(), platform.KindDarwin, record)).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dataDir, "client"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("echo hi"))

		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())
		Expect(statuses).To(ContainElement(HavePrefix("Downloaded ")))
		Expect(statuses[0]).To(Equal("Downloading client-osx32.zip"))
	})

	It("reports cumulative megabytes", func() {
		server.assets["client-osx32.zip"] = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(bytes.Repeat([]byte{0}, 1048576))
		}

		err := pipeline.Run(context.Background(), platform.KindDarwin, record)
		Expect(errors.Is(err, download.ErrExtraction)).To(BeTrue())

		var downloaded []string
		for _, s := range statuses {
			if strings.HasPrefix(s, "Downloaded ") {
				downloaded = append(downloaded, s)
			}
		}

		Expect(downloaded).NotTo(BeEmpty())
		Expect(downloaded[len(downloaded)-1]).To(Equal("Downloaded 1.00mb"))
	})

	It("cleans up after a stream failure", func() {
		server.assets["client-osx32.zip"] = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", "100000")
			_, _ = w.Write([]byte("partial"))
		}

		err := pipeline.Run(context.Background(), platform.KindDarwin, record)

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, download.ErrStream)).To(BeTrue())
		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())
	})

	It("cleans up after an extraction failure", func() {
		server.assets["client-osx32.zip"] = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("definitely not a zip"))
		}

		err := pipeline.Run(context.Background(), platform.KindDarwin, record)

		Expect(errors.Is(err, download.ErrExtraction)).To(BeTrue())
		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())
		Expect(filepath.Join(dataDir, "client")).NotTo(BeAnExistingFile())
	})

	It("fails on a non-200 asset without leaving scratch files", func() {
		err := pipeline.Run(context.Background(), platform.KindDarwin, record)

		Expect(err).To(MatchError(ContainSubstring("HTTP 404")))
		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())
	})

	It("does not create the scratch directory when resolution fails", func() {
		err := pipeline.Run(context.Background(), platform.KindWindows, record)

		Expect(errors.Is(err, release.ErrURLNotResolved)).To(BeTrue())
		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())
		Expect(statuses).To(BeEmpty())
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(pipeline.Run(ctx, platform.KindDarwin, record)).NotTo(Succeed())
		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())
	})
})

var _ = Describe("Downloader", func() {
	It("sends the configured User-Agent", func() {
		var ua string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.UserAgent()
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		dest := filepath.Join(GinkgoT().TempDir(), "f")

		n, err := download.NewDownloader(server.Client(), "clientup/1.0").
			DownloadToFile(context.Background(), server.URL, dest, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))
		Expect(ua).To(Equal("clientup/1.0"))
	})
})

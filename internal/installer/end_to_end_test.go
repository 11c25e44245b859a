package installer_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/clientup/internal/archive"
	"github.com/smykla-skalski/clientup/internal/download"
	"github.com/smykla-skalski/clientup/internal/exec"
	"github.com/smykla-skalski/clientup/internal/installer"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/release"
	"github.com/smykla-skalski/clientup/internal/strategy"
)

func clientZip() []byte {
	var buf bytes.Buffer

	w := zip.NewWriter(&buf)
	fw, err := w.Create("client")
	Expect(err).NotTo(HaveOccurred())

	_, err = fw.Write([]byte("#!/bin/sh\necho client\n"))
	Expect(err).NotTo(HaveOccurred())
	Expect(w.Close()).To(Succeed())

	return buf.Bytes()
}

var _ = Describe("darwin end to end", func() {
	var (
		server  *httptest.Server
		dataDir string
	)

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("permission bits are not meaningful on windows")
		}

		payload := clientZip()

		mux := http.NewServeMux()
		mux.HandleFunc("/manifest", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprintf(w, `{"assets":[`+
				`{"name":"client-debian32.zip","browser_download_url":"%[1]s/assets/client-debian32.zip"},`+
				`{"name":"client-osx32.zip","browser_download_url":"%[1]s/assets/client-osx32.zip"}]}`,
				server.URL)
		})
		mux.HandleFunc("/assets/client-osx32.zip", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(payload)
		})

		server = httptest.NewServer(mux)
		DeferCleanup(server.Close)

		dataDir = filepath.Join(GinkgoT().TempDir(), "data")
	})

	It("downloads, extracts, marks executable and removes the scratch dir", func() {
		pipeline := download.NewPipeline(
			release.NewResolver(release.NewManifestSource(server.Client(), server.URL+"/manifest", "clientup")),
			download.NewDownloader(server.Client(), "clientup"),
			archive.NewExtractor(),
			dataDir,
			nil,
		)
		profile := platform.NewProfile(platform.KindDarwin, dataDir, "client")
		collector := installer.NewCollector()

		inst, err := installer.New(installer.Options{
			Kind:       platform.KindDarwin,
			DataDir:    dataDir,
			ClientName: "client",
			Strategy:   strategy.NewArchive(pipeline, profile, nil),
			Sink:       collector.Sink(),
		})
		Expect(err).NotTo(HaveOccurred())

		installed, err := inst.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(installed).To(BeFalse())

		Expect(inst.Install(context.Background(), "")).To(Succeed())

		info, err := os.Stat(inst.ClientPath())
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o755)))
		Expect(pipeline.ScratchDir()).NotTo(BeADirectory())

		Expect(collector.Statuses()).To(ContainElements(
			"Downloading client-osx32.zip",
			"Extracting client-osx32.zip",
		))
		Expect(collector.Terminals()).To(ConsistOf(HaveField("Kind", installer.EventEnd)))

		installed, err = inst.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(installed).To(BeTrue())
	})
})

var _ = Describe("linux end to end", func() {
	var (
		ctrl   *gomock.Controller
		runner *exec.MockCommandRunner
		ctx    context.Context
	)

	ok := exec.StartedResult("", "", 0, nil)
	missing := exec.StartedResult("", "", 1, errors.New("exit status 1"))

	build := func(collector *installer.Collector) *installer.Installer {
		inst, err := installer.New(installer.Options{
			Kind:       platform.KindLinux,
			ClientName: "client",
			Runner:     runner,
			Strategy: strategy.NewPackageManager(strategy.PackageManagerOptions{
				Runner:  runner,
				Package: "client",
			}),
			Sink: collector.Sink(),
		})
		Expect(err).NotTo(HaveOccurred())

		return inst
	}

	sudoArgs := func(argv ...string) []any {
		args := []any{"-S", "-p", "", "--"}
		for _, a := range argv {
			args = append(args, a)
		}

		return args
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		runner = exec.NewMockCommandRunner(ctrl)
		ctx = context.Background()
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("installs pip, then the client", func() {
		var stdins []string

		capture := func(_ context.Context, stdin io.Reader, _ string, _ ...string) exec.CommandResult {
			data, err := io.ReadAll(stdin)
			Expect(err).NotTo(HaveOccurred())

			stdins = append(stdins, string(data))

			return ok
		}

		gomock.InOrder(
			runner.EXPECT().Run(ctx, "sh", "-c", "command -v client").Return(missing),
			runner.EXPECT().Run(ctx, "sh", "-c", "command -v pip3").Return(missing),
			runner.EXPECT().RunWithStdin(ctx, gomock.Any(), "sudo", sudoArgs("apt-get", "install", "-y", "python3-pip")...).
				DoAndReturn(capture),
			runner.EXPECT().RunWithStdin(ctx, gomock.Any(), "sudo", sudoArgs("pip3", "install", "client")...).
				DoAndReturn(capture),
		)

		collector := installer.NewCollector()
		inst := build(collector)

		Expect(inst.Install(ctx, "s3cret")).To(Succeed())
		Expect(stdins).To(Equal([]string{"s3cret\n", "s3cret\n"}))
		Expect(inst.ClientPath()).To(Equal("client"))
		Expect(collector.Terminals()).To(ConsistOf(HaveField("Kind", installer.EventEnd)))
	})

	It("fails with a client install error when pip fails", func() {
		gomock.InOrder(
			runner.EXPECT().Run(ctx, "sh", "-c", "command -v client").Return(missing),
			runner.EXPECT().Run(ctx, "sh", "-c", "command -v pip3").Return(missing),
			runner.EXPECT().RunWithStdin(ctx, gomock.Any(), "sudo", sudoArgs("apt-get", "install", "-y", "python3-pip")...).
				Return(ok),
			runner.EXPECT().RunWithStdin(ctx, gomock.Any(), "sudo", sudoArgs("pip3", "install", "client")...).
				Return(exec.StartedResult("", "ERROR: could not install\n", 1, errors.New("exit status 1"))),
		)

		collector := installer.NewCollector()
		err := build(collector).Install(ctx, "s3cret")

		Expect(errors.Is(err, installer.ErrClientInstall)).To(BeTrue())
		Expect(collector.Terminals()).To(ConsistOf(HaveField("Kind", installer.EventError)))
	})

	It("ends immediately when the client is on PATH", func() {
		runner.EXPECT().Run(ctx, "sh", "-c", "command -v client").
			Return(exec.StartedResult("/usr/local/bin/client\n", "", 0, nil))

		collector := installer.NewCollector()

		Expect(build(collector).Install(ctx, "s3cret")).To(Succeed())
		Expect(collector.Terminals()).To(ConsistOf(HaveField("Kind", installer.EventEnd)))
	})
})

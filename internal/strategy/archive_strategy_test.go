package strategy_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/clientup/internal/download"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/strategy"
)

type fakePipeline struct {
	calls int
	run   func(kind platform.Kind, status download.StatusFunc) error
}

func (f *fakePipeline) Run(_ context.Context, kind platform.Kind, status download.StatusFunc) error {
	f.calls++

	return f.run(kind, status)
}

var _ = Describe("Archive", func() {
	var (
		dataDir  string
		pipeline *fakePipeline
	)

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("permission bits are not meaningful on windows")
		}

		dataDir = GinkgoT().TempDir()
		pipeline = &fakePipeline{}
	})

	writeClient := func(path string) {
		Expect(os.WriteFile(path, []byte("bin"), 0o600)).To(Succeed())
	}

	mode := func(path string) os.FileMode {
		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())

		return info.Mode().Perm()
	}

	It("marks the client executable on darwin", func() {
		profile := platform.NewProfile(platform.KindDarwin, dataDir, "client")
		pipeline.run = func(kind platform.Kind, status download.StatusFunc) error {
			Expect(kind).To(Equal(platform.KindDarwin))
			status("Downloaded 1.00mb")
			writeClient(profile.ClientPath)

			return nil
		}

		var statuses []string

		err := strategy.NewArchive(pipeline, profile, nil).
			Install(context.Background(), "ignored", func(m string) { statuses = append(statuses, m) })

		Expect(err).NotTo(HaveOccurred())
		Expect(mode(profile.ClientPath)).To(Equal(os.FileMode(0o755)))
		Expect(statuses).To(Equal([]string{"Downloaded 1.00mb"}))
	})

	It("skips the permission fix-up when the pipeline fails", func() {
		profile := platform.NewProfile(platform.KindDarwin, dataDir, "client")
		writeClient(profile.ClientPath)

		pipeline.run = func(platform.Kind, download.StatusFunc) error {
			return errors.Mark(errors.New("boom"), download.ErrStream)
		}

		err := strategy.NewArchive(pipeline, profile, nil).Install(context.Background(), "", nil)

		Expect(errors.Is(err, download.ErrStream)).To(BeTrue())
		Expect(mode(profile.ClientPath)).To(Equal(os.FileMode(0o600)))
	})

	It("reports a missing client after a successful extraction", func() {
		profile := platform.NewProfile(platform.KindDarwin, dataDir, "client")
		pipeline.run = func(platform.Kind, download.StatusFunc) error { return nil }

		err := strategy.NewArchive(pipeline, profile, nil).Install(context.Background(), "", nil)

		Expect(errors.Is(err, strategy.ErrPermissions)).To(BeTrue())
	})

	It("leaves permissions alone on windows", func() {
		client := filepath.Join(dataDir, "client.exe")
		writeClient(client)

		profile := platform.Profile{Kind: platform.KindWindows, ClientPath: client}
		pipeline.run = func(kind platform.Kind, _ download.StatusFunc) error {
			Expect(kind).To(Equal(platform.KindWindows))

			return nil
		}

		Expect(strategy.NewArchive(pipeline, profile, nil).Install(context.Background(), "", nil)).To(Succeed())
		Expect(mode(client)).To(Equal(os.FileMode(0o600)))
	})
})

var _ = Describe("ForProfile", func() {
	It("builds the package-manager strategy on linux", func() {
		s, err := strategy.ForProfile(platform.NewProfile(platform.KindLinux, "/d", "client"), strategy.Deps{})

		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeAssignableToTypeOf(&strategy.PackageManager{}))
	})

	It("builds the archive strategy on darwin and windows", func() {
		for _, kind := range []platform.Kind{platform.KindDarwin, platform.KindWindows} {
			s, err := strategy.ForProfile(platform.NewProfile(kind, "/d", "client"),
				strategy.Deps{Pipeline: &fakePipeline{}})

			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeAssignableToTypeOf(&strategy.Archive{}))
		}
	})

	It("needs a pipeline for archive installs", func() {
		_, err := strategy.ForProfile(platform.NewProfile(platform.KindDarwin, "/d", "client"), strategy.Deps{})

		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown platforms", func() {
		_, err := strategy.ForProfile(platform.Profile{}, strategy.Deps{})

		Expect(err).To(HaveOccurred())
	})
})

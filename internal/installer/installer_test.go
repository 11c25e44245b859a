package installer_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/clientup/internal/installer"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/presence"
	"github.com/smykla-skalski/clientup/internal/strategy"
)

var _ = Describe("Installer", func() {
	var (
		ctrl      *gomock.Controller
		checker   *presence.MockChecker
		strat     *strategy.MockStrategy
		collector *installer.Collector
		ctx       context.Context
	)

	build := func(kind platform.Kind) *installer.Installer {
		inst, err := installer.New(installer.Options{
			Kind:       kind,
			DataDir:    "/data",
			ClientName: "client",
			Checker:    checker,
			Strategy:   strat,
			Sink:       collector.Sink(),
		})
		Expect(err).NotTo(HaveOccurred())

		return inst
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		checker = presence.NewMockChecker(ctrl)
		strat = strategy.NewMockStrategy(ctrl)
		collector = installer.NewCollector()
		ctx = context.Background()
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("on an unsupported platform", func() {
		It("fails before touching the checker or strategy", func() {
			inst := build(platform.KindUnknown)

			err := inst.Install(ctx, "secret")

			Expect(errors.Is(err, installer.ErrUnsupportedPlatform)).To(BeTrue())
			Expect(collector.Events()).To(HaveLen(1))
			Expect(collector.Terminals()[0].Kind).To(Equal(installer.EventError))
			Expect(inst.State()).To(Equal(installer.StateFailed))
			Expect(inst.ClientPath()).To(BeEmpty())
		})

		It("rejects Check too", func() {
			_, err := build(platform.KindUnknown).Check(ctx)

			Expect(errors.Is(err, installer.ErrUnsupportedPlatform)).To(BeTrue())
		})
	})

	It("ends without installing when the client is present", func() {
		checker.EXPECT().CheckInstalled(gomock.Any()).Return(true, nil)

		inst := build(platform.KindDarwin)

		Expect(inst.Install(ctx, "")).To(Succeed())
		Expect(collector.Terminals()).To(ConsistOf(
			HaveField("Kind", installer.EventEnd),
		))
		Expect(inst.State()).To(Equal(installer.StateInstalled))
	})

	It("surfaces a checker failure and does nothing else", func() {
		checker.EXPECT().CheckInstalled(gomock.Any()).Return(false, errors.New("sh: fork failed"))

		inst := build(platform.KindLinux)
		err := inst.Install(ctx, "pw")

		Expect(errors.Is(err, installer.ErrPresenceCheck)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("fork failed")))
		Expect(collector.Terminals()).To(HaveLen(1))
		Expect(collector.Terminals()[0].Err).To(BeIdenticalTo(err))
	})

	It("runs the strategy with the secret and forwards its statuses", func() {
		gomock.InOrder(
			checker.EXPECT().CheckInstalled(gomock.Any()).Return(false, nil),
			strat.EXPECT().Install(gomock.Any(), "pw", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, status strategy.StatusFunc) error {
					status("Installing client")

					return nil
				}),
		)

		inst := build(platform.KindLinux)

		Expect(inst.Install(ctx, "pw")).To(Succeed())
		Expect(collector.Statuses()).To(ContainElement("Installing client"))
		Expect(collector.Terminals()).To(ConsistOf(HaveField("Kind", installer.EventEnd)))
		Expect(inst.State()).To(Equal(installer.StateInstallSucceeded))
	})

	It("reports a strategy failure as the single terminal error", func() {
		cause := errors.Mark(errors.New("pip3: exit status 1"), strategy.ErrClientInstall)

		checker.EXPECT().CheckInstalled(gomock.Any()).Return(false, nil)
		strat.EXPECT().Install(gomock.Any(), "", gomock.Any()).Return(cause)

		inst := build(platform.KindLinux)
		err := inst.Install(ctx, "")

		Expect(errors.Is(err, installer.ErrClientInstall)).To(BeTrue())
		Expect(collector.Terminals()).To(HaveLen(1))
		Expect(collector.Events()[len(collector.Events())-1].Kind).To(Equal(installer.EventError))
		Expect(inst.State()).To(Equal(installer.StateFailed))
	})

	It("rejects an overlapping install", func() {
		inst := build(platform.KindDarwin)

		checker.EXPECT().CheckInstalled(gomock.Any()).Return(false, nil)
		strat.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, strategy.StatusFunc) error {
				Expect(errors.Is(inst.Install(ctx, ""), installer.ErrInstallInProgress)).To(BeTrue())

				return nil
			})

		Expect(inst.Install(ctx, "")).To(Succeed())
		Expect(collector.Terminals()).To(HaveLen(2))
		Expect(inst.State()).To(Equal(installer.StateInstallSucceeded))
	})

	It("allows a second install after the first finished", func() {
		checker.EXPECT().CheckInstalled(gomock.Any()).Return(true, nil).Times(2)

		inst := build(platform.KindWindows)

		Expect(inst.Install(ctx, "")).To(Succeed())
		Expect(inst.Install(ctx, "")).To(Succeed())
		Expect(collector.Terminals()).To(HaveLen(2))
	})

	It("checks presence without installing", func() {
		checker.EXPECT().CheckInstalled(gomock.Any()).Return(false, nil)

		installed, err := build(platform.KindDarwin).Check(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(installed).To(BeFalse())
	})

	It("requires a strategy on supported platforms", func() {
		_, err := installer.New(installer.Options{
			Kind:       platform.KindDarwin,
			DataDir:    "/data",
			ClientName: "client",
		})

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("State", func() {
	DescribeTable("names and terminality",
		func(s installer.State, name string, terminal bool) {
			Expect(s.String()).To(Equal(name))
			Expect(s.Terminal()).To(Equal(terminal))
		},
		Entry(nil, installer.StateUnknown, "unknown", false),
		Entry(nil, installer.StateChecking, "checking", false),
		Entry(nil, installer.StateInstalled, "installed", true),
		Entry(nil, installer.StateNotInstalled, "not-installed", false),
		Entry(nil, installer.StateInstalling, "installing", false),
		Entry(nil, installer.StateInstallSucceeded, "install-succeeded", true),
		Entry(nil, installer.StateFailed, "failed", true),
	)
})

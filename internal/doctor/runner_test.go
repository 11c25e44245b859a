package doctor_test

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/prompt"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

type stubFixer struct {
	id       string
	canFix   bool
	err      error
	onFix    func()
	fixCalls int
	lastMode bool
}

func (f *stubFixer) ID() string                     { return f.id }
func (*stubFixer) Description() string              { return "repair it" }
func (f *stubFixer) CanFix(doctor.CheckResult) bool { return f.canFix || f.onFix != nil }

func (f *stubFixer) Fix(_ context.Context, interactive bool) error {
	f.fixCalls++
	f.lastMode = interactive

	if f.onFix != nil {
		f.onFix()
	}

	return f.err
}

// streamingReporter tracks calls to RunAndReport.
type streamingReporter struct {
	reportCalled       bool
	runAndReportCalled bool
	results            []doctor.CheckResult
}

func (m *streamingReporter) Report(_ []doctor.CheckResult, _ bool) {
	m.reportCalled = true
}

func (m *streamingReporter) RunAndReport(
	_ context.Context,
	_ *doctor.Registry,
	_ bool,
	_ []doctor.Category,
) []doctor.CheckResult {
	m.runAndReportCalled = true

	return m.results
}

// batchReporter only implements Reporter.
type batchReporter struct {
	reports [][]doctor.CheckResult
}

func (m *batchReporter) Report(results []doctor.CheckResult, _ bool) {
	m.reports = append(m.reports, results)
}

var _ = Describe("Runner", func() {
	var (
		registry *doctor.Registry
		reporter *batchReporter
		out      *bytes.Buffer
		fixed    bool
		checker  *stubChecker
		fixer    *stubFixer
	)

	BeforeEach(func() {
		fixed = false
		out = &bytes.Buffer{}
		reporter = &batchReporter{}
		registry = doctor.NewRegistry()

		checker = &stubChecker{
			name:     "Client installed",
			category: doctor.CategoryClient,
			check: func() doctor.CheckResult {
				if fixed {
					return doctor.Pass("Client installed", "found")
				}

				return doctor.FailError("Client installed", "missing").WithFixID(doctor.FixInstallClient)
			},
		}
		fixer = &stubFixer{id: doctor.FixInstallClient, onFix: func() { fixed = true }}

		registry.RegisterChecker(checker)
		registry.RegisterChecker(&stubChecker{name: "Data directory", category: doctor.CategoryPaths})
		registry.RegisterFixer(fixer)
	})

	newRunner := func(p prompt.Prompter) *doctor.Runner {
		return doctor.NewRunner(registry, reporter, p, logger.NewNoOpLogger(), out)
	}

	It("uses RunAndReport when the reporter streams", func() {
		sr := &streamingReporter{results: []doctor.CheckResult{doctor.Pass("test", "ok")}}
		runner := doctor.NewRunner(registry, sr, nil, logger.NewNoOpLogger(), out)

		Expect(runner.Run(context.Background(), doctor.RunOptions{})).To(Succeed())
		Expect(sr.runAndReportCalled).To(BeTrue())
		Expect(sr.reportCalled).To(BeFalse())
	})

	It("suggests fixes and fails without --fix", func() {
		err := newRunner(nil).Run(context.Background(), doctor.RunOptions{})

		Expect(errors.Is(err, doctor.ErrChecksFailed)).To(BeTrue())
		Expect(reporter.reports).To(HaveLen(1))
		Expect(out.String()).To(ContainSubstring("Client installed: repair it"))
		Expect(out.String()).To(ContainSubstring("clientup doctor --fix"))
		Expect(fixer.fixCalls).To(BeZero())
	})

	It("applies fixes and re-runs only the fixed checks", func() {
		err := newRunner(nil).Run(context.Background(), doctor.RunOptions{AutoFix: true})

		Expect(err).NotTo(HaveOccurred())
		Expect(fixer.fixCalls).To(Equal(1))
		Expect(fixer.lastMode).To(BeFalse())
		Expect(reporter.reports).To(HaveLen(2))
		Expect(reporter.reports[1]).To(HaveLen(1))
		Expect(reporter.reports[1][0].IsPassed()).To(BeTrue())
	})

	It("reports a failing fix", func() {
		fixer.err = errors.New("pip exploded")

		err := newRunner(nil).Run(context.Background(), doctor.RunOptions{AutoFix: true})

		Expect(err).To(MatchError(ContainSubstring("pip exploded")))
		Expect(err).To(MatchError(ContainSubstring(`failed to fix "Client installed"`)))
	})

	It("still fails when the fix does not resolve the check", func() {
		fixer.onFix = func() {}

		err := newRunner(nil).Run(context.Background(), doctor.RunOptions{AutoFix: true})

		Expect(errors.Is(err, doctor.ErrChecksFailed)).To(BeTrue())
	})

	It("limits checks to the requested categories", func() {
		err := newRunner(nil).Run(context.Background(), doctor.RunOptions{
			Categories: []doctor.Category{doctor.CategoryPaths},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(checker.calls.Load()).To(BeZero())
	})

	Describe("interactive", func() {
		var (
			ctrl     *gomock.Controller
			prompter *prompt.MockPrompter
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			prompter = prompt.NewMockPrompter(ctrl)
		})

		It("applies a confirmed fix interactively", func() {
			prompter.EXPECT().Confirm("Client installed: repair it?", true).Return(true, nil)

			err := newRunner(prompter).Run(context.Background(), doctor.RunOptions{Interactive: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(fixer.lastMode).To(BeTrue())
		})

		It("skips a declined fix", func() {
			prompter.EXPECT().Confirm(gomock.Any(), true).Return(false, nil)

			err := newRunner(prompter).Run(context.Background(), doctor.RunOptions{Interactive: true})

			Expect(errors.Is(err, doctor.ErrChecksFailed)).To(BeTrue())
			Expect(fixer.fixCalls).To(BeZero())
		})

		It("stops when the prompt fails", func() {
			prompter.EXPECT().Confirm(gomock.Any(), true).Return(false, prompt.ErrEmptyInput)

			err := newRunner(prompter).Run(context.Background(), doctor.RunOptions{Interactive: true})

			Expect(errors.Is(err, prompt.ErrEmptyInput)).To(BeTrue())
		})
	})

	It("does not offer fixers that are not registered", func() {
		registry := doctor.NewRegistry()
		registry.RegisterChecker(&stubChecker{
			name:     "orphan",
			category: doctor.CategoryConfig,
			check: func() doctor.CheckResult {
				return doctor.FailWarning("orphan", "meh").WithFixID("nope")
			},
		})

		runner := doctor.NewRunner(registry, reporter, nil, logger.NewNoOpLogger(), out)

		Expect(runner.Run(context.Background(), doctor.RunOptions{})).To(Succeed())
		Expect(out.String()).To(BeEmpty())
	})
})

package reporters_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/clientup/internal/color"
	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/doctor/reporters"
)

// instantChecker returns a result immediately.
type instantChecker struct {
	name     string
	category doctor.Category
	result   doctor.CheckResult
}

func (c *instantChecker) Name() string                               { return c.name }
func (c *instantChecker) Category() doctor.Category                  { return c.category }
func (c *instantChecker) Check(_ context.Context) doctor.CheckResult { return c.result }

var _ = Describe("InteractiveReporter", func() {
	var (
		out, tty *bytes.Buffer
		reporter *reporters.InteractiveReporter
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		tty = &bytes.Buffer{}
		reporter = reporters.NewInteractiveReporter(
			out, tty, nil, reporters.NewTable(color.NewTheme(false), 0, ""), "",
		)
	})

	It("satisfies StreamingReporter", func() {
		var _ doctor.StreamingReporter = reporter
	})

	It("runs all checkers and prints the table", func() {
		registry := doctor.NewRegistry()
		registry.RegisterChecker(&instantChecker{
			name:     "Client installed",
			category: doctor.CategoryClient,
			result:   doctor.Pass("Client installed", "ok"),
		})
		registry.RegisterChecker(&instantChecker{
			name:     "pip3 available",
			category: doctor.CategoryTools,
			result:   doctor.FailError("pip3 available", "missing"),
		})

		results := reporter.RunAndReport(context.Background(), registry, false, nil)

		Expect(results).To(HaveLen(2))
		Expect(results[0].Status).To(Equal(doctor.StatusPass))
		Expect(results[1].Status).To(Equal(doctor.StatusFail))
		Expect(results[1].Category).To(Equal(doctor.CategoryTools))
		Expect(out.String()).To(ContainSubstring("Summary: 1 error(s)"))
	})

	It("honors the category filter", func() {
		registry := doctor.NewRegistry()
		registry.RegisterChecker(&instantChecker{
			name: "a", category: doctor.CategoryClient, result: doctor.Pass("a", "ok"),
		})
		registry.RegisterChecker(&instantChecker{
			name: "b", category: doctor.CategoryPaths, result: doctor.Pass("b", "ok"),
		})

		results := reporter.RunAndReport(
			context.Background(), registry, false, []doctor.Category{doctor.CategoryPaths},
		)

		Expect(results).To(HaveLen(1))
		Expect(results[0].Name).To(Equal("b"))
	})

	It("says so when there is nothing to run", func() {
		Expect(reporter.RunAndReport(context.Background(), doctor.NewRegistry(), false, nil)).To(BeNil())
		Expect(out.String()).To(ContainSubstring("No checks to run."))
	})
})

var _ = Describe("doctor model", func() {
	checkers := func() []doctor.HealthChecker {
		return []doctor.HealthChecker{
			&instantChecker{name: "one", category: doctor.CategoryClient},
			&instantChecker{name: "two", category: doctor.CategoryPaths},
		}
	}

	It("shows pending checks until all report", func() {
		m := reporters.NewModelForTest(checkers(), color.NewTheme(false))

		Expect(m.View()).To(ContainSubstring("(2 left)"))

		m, cmd := m.Update(reporters.CheckDoneForTest(0, doctor.Pass("one", "fine")))
		Expect(cmd).To(BeNil())
		Expect(m.View()).To(ContainSubstring("✓ one - fine"))
		Expect(m.View()).To(ContainSubstring("(1 left)"))

		m, cmd = m.Update(reporters.CheckDoneForTest(1, doctor.Pass("two", "fine")))
		Expect(cmd).NotTo(BeNil())
		Expect(m.View()).To(BeEmpty())
		Expect(reporters.ModelResultsForTest(m)).To(HaveLen(2))
	})

	It("marks unfinished checks as interrupted", func() {
		m := reporters.NewModelForTest(checkers(), color.NewTheme(false))

		m, _ = m.Update(reporters.CheckDoneForTest(0, doctor.Pass("one", "fine")))

		results := reporters.ModelResultsForTest(m)
		Expect(results[1].IsSkipped()).To(BeTrue())
		Expect(results[1].Message).To(Equal("Interrupted"))
		Expect(results[1].Category).To(Equal(doctor.CategoryPaths))
	})
})

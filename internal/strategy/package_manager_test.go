package strategy_test

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/clientup/internal/exec"
	"github.com/smykla-skalski/clientup/internal/strategy"
)

var _ = Describe("PackageManager", func() {
	var (
		ctrl     *gomock.Controller
		runner   *exec.MockCommandRunner
		ctx      context.Context
		pm       *strategy.PackageManager
		statuses []string
	)

	const lookupScript = "command -v pip3"

	ok := func(stdout string) exec.CommandResult {
		return exec.StartedResult(stdout, "", 0, nil)
	}

	failed := func(stderr string, code int) exec.CommandResult {
		return exec.StartedResult("", stderr, code, errors.Newf("exit status %d", code))
	}

	expectStdin := func(want string, result exec.CommandResult) func(context.Context, io.Reader, string, ...string) exec.CommandResult {
		return func(_ context.Context, stdin io.Reader, _ string, _ ...string) exec.CommandResult {
			data, err := io.ReadAll(stdin)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(want))

			return result
		}
	}

	record := func(msg string) { statuses = append(statuses, msg) }

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		runner = exec.NewMockCommandRunner(ctrl)
		ctx = context.Background()
		statuses = nil

		pm = strategy.NewPackageManager(strategy.PackageManagerOptions{
			Runner:  runner,
			Package: "client",
		})
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("when pip is absent", func() {
		BeforeEach(func() {
			runner.EXPECT().Run(ctx, "sh", "-c", lookupScript).Return(failed("", 1))
		})

		It("installs pip, then the client, feeding the password on stdin", func() {
			gomock.InOrder(
				runner.EXPECT().
					RunWithStdin(ctx, gomock.Any(), "sudo", "-S", "-p", "", "--",
						"apt-get", "install", "-y", "python3-pip").
					DoAndReturn(expectStdin("hunter2\n", ok("Setting up python3-pip\n"))),
				runner.EXPECT().
					RunWithStdin(ctx, gomock.Any(), "sudo", "-S", "-p", "", "--",
						"pip3", "install", "client").
					DoAndReturn(expectStdin("hunter2\n", ok("Successfully installed client-1.0\n"))),
			)

			Expect(pm.Install(ctx, "hunter2", record)).To(Succeed())
			Expect(statuses).To(Equal([]string{
				"Installing pip3",
				"Setting up python3-pip",
				"Installing client",
				"Successfully installed client-1.0",
			}))
		})

		It("fails with a client install error and skips nothing else", func() {
			gomock.InOrder(
				runner.EXPECT().
					RunWithStdin(ctx, gomock.Any(), "sudo", "-S", "-p", "", "--",
						"apt-get", "install", "-y", "python3-pip").
					Return(ok("")),
				runner.EXPECT().
					RunWithStdin(ctx, gomock.Any(), "sudo", "-S", "-p", "", "--",
						"pip3", "install", "client").
					Return(failed("ERROR: No matching distribution found for client\n", 1)),
			)

			err := pm.Install(ctx, "hunter2", record)

			Expect(errors.Is(err, strategy.ErrClientInstall)).To(BeTrue())
			Expect(errors.Is(err, strategy.ErrDependencyInstall)).To(BeFalse())
			Expect(err).To(MatchError(ContainSubstring("No matching distribution")))
		})

		It("aborts when the dependency install fails", func() {
			runner.EXPECT().
				RunWithStdin(ctx, gomock.Any(), "sudo", "-S", "-p", "", "--",
					"apt-get", "install", "-y", "python3-pip").
				Return(failed("E: Unable to locate package python3-pip\n", 100))

			err := pm.Install(ctx, "hunter2", record)

			Expect(errors.Is(err, strategy.ErrDependencyInstall)).To(BeTrue())
			Expect(statuses).NotTo(ContainElement("Installing client"))
		})

		It("uses non-interactive sudo when no password is given", func() {
			gomock.InOrder(
				runner.EXPECT().
					Run(ctx, "sudo", "-n", "--", "apt-get", "install", "-y", "python3-pip").
					Return(ok("")),
				runner.EXPECT().
					Run(ctx, "sudo", "-n", "--", "pip3", "install", "client").
					Return(ok("")),
			)

			Expect(pm.Install(ctx, "", record)).To(Succeed())
		})
	})

	Context("when pip is present", func() {
		It("installs only the client", func() {
			runner.EXPECT().Run(ctx, "sh", "-c", lookupScript).Return(ok("/usr/bin/pip3\n"))
			runner.EXPECT().
				RunWithStdin(ctx, gomock.Any(), "sudo", "-S", "-p", "", "--", "pip3", "install", "client").
				Return(ok(""))

			Expect(pm.Install(ctx, "pw", record)).To(Succeed())
			Expect(statuses).To(Equal([]string{"Installing client"}))
		})
	})

	It("fails as a dependency error when the lookup shell is missing", func() {
		runner.EXPECT().Run(ctx, "sh", "-c", lookupScript).
			Return(exec.CommandResult{ExitCode: -1, Err: errors.New("sh: not found")})

		err := pm.Install(ctx, "pw", record)

		Expect(errors.Is(err, strategy.ErrDependencyInstall)).To(BeTrue())
	})

	It("honors a custom manager and dependency command", func() {
		custom := strategy.NewPackageManager(strategy.PackageManagerOptions{
			Runner:            runner,
			Manager:           "pipx",
			Package:           "client",
			DependencyInstall: []string{"dnf", "install", "-y", "pipx"},
		})

		gomock.InOrder(
			runner.EXPECT().Run(ctx, "sh", "-c", "command -v pipx").Return(failed("", 1)),
			runner.EXPECT().Run(ctx, "sudo", "-n", "--", "dnf", "install", "-y", "pipx").Return(ok("")),
			runner.EXPECT().Run(ctx, "sudo", "-n", "--", "pipx", "install", "client").Return(ok("")),
		)

		Expect(custom.Install(ctx, "", nil)).To(Succeed())
	})
})

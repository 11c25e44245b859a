// Package doctor diagnoses a clientup installation: whether the client is
// present and runnable, whether the data directory and configuration are
// usable, and whether the tools a Linux install shells out to exist.
package doctor

import "context"

// Severity grades a failed check. Only SeverityError makes a run fail.
type Severity string

// Status is the outcome of one check.
type Status string

// Category groups checks for filtering and display.
type Category string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"

	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

const (
	// CategoryClient covers client presence and its file mode.
	CategoryClient Category = "client"
	// CategoryPaths covers the data directory and the download scratch space.
	CategoryPaths Category = "paths"
	// CategoryConfig covers the TOML configuration file.
	CategoryConfig Category = "config"
	// CategoryTools covers sh, pip, sudo and the system package manager.
	CategoryTools Category = "tools"
)

// Fix identifiers. A CheckResult names one in FixID and the Runner looks the
// Fixer up by it.
const (
	FixInstallClient = "install_client"
	FixPermissions   = "fix_permissions"
	FixCleanScratch  = "clean_scratch"
	FixCreateDataDir = "create_data_dir"
)

// CheckResult is what a HealthChecker reports. Category is filled in by
// RunCheckers, checkers leave it empty.
type CheckResult struct {
	Name     string
	Category Category
	Severity Severity
	Status   Status
	Message  string
	// Details are extra lines shown in verbose mode.
	Details []string
	// FixID names the Fixer for this problem, empty when there is none.
	FixID string
}

// HealthChecker is a single diagnostic.
type HealthChecker interface {
	Name() string
	Category() Category
	Check(ctx context.Context) CheckResult
}

// Fixer repairs the problem behind one fix ID.
type Fixer interface {
	ID() string
	// Description completes the sentence "<check>: <description>?".
	Description() string
	CanFix(result CheckResult) bool
	// Fix applies the repair. interactive allows the fixer to prompt.
	Fix(ctx context.Context, interactive bool) error
}

// Reporter prints a batch of results.
type Reporter interface {
	Report(results []CheckResult, verbose bool)
}

// StreamingReporter runs the checks itself so it can show them as they
// finish.
type StreamingReporter interface {
	Reporter

	RunAndReport(
		ctx context.Context,
		registry *Registry,
		verbose bool,
		categories []Category,
	) []CheckResult
}

// NewCheckResult builds a result with an empty, non-nil Details slice.
func NewCheckResult(name string, severity Severity, status Status, message string) CheckResult {
	return CheckResult{
		Name:     name,
		Severity: severity,
		Status:   status,
		Message:  message,
		Details:  []string{},
	}
}

func Pass(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusPass, message)
}

func FailError(name, message string) CheckResult {
	return NewCheckResult(name, SeverityError, StatusFail, message)
}

func FailWarning(name, message string) CheckResult {
	return NewCheckResult(name, SeverityWarning, StatusFail, message)
}

func Skip(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusSkipped, message)
}

// WithDetails returns a copy with details appended.
func (r CheckResult) WithDetails(details ...string) CheckResult {
	r.Details = append(append([]string{}, r.Details...), details...)

	return r
}

// WithFixID returns a copy pointing at the fixer with id.
func (r CheckResult) WithFixID(id string) CheckResult {
	r.FixID = id

	return r
}

func (r CheckResult) IsError() bool   { return r.Status == StatusFail && r.Severity == SeverityError }
func (r CheckResult) IsWarning() bool { return r.Status == StatusFail && r.Severity == SeverityWarning }
func (r CheckResult) IsPassed() bool  { return r.Status == StatusPass }
func (r CheckResult) IsSkipped() bool { return r.Status == StatusSkipped }
func (r CheckResult) HasFix() bool    { return r.FixID != "" }

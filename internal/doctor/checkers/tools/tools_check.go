// Package tools provides checkers for the commands a Linux install runs.
package tools

import (
	"context"
	"fmt"

	"github.com/smykla-skalski/clientup/internal/doctor"
	"github.com/smykla-skalski/clientup/internal/exec"
)

// ToolChecker checks that one of a tool's alternatives is on PATH
type ToolChecker struct {
	toolName     string
	alternatives []string
	description  string
	severity     doctor.Severity
	installHint  string
	tools        exec.ToolChecker
}

// NewShellChecker creates a checker for the shell used by the presence lookup
func NewShellChecker(tools exec.ToolChecker) *ToolChecker {
	return &ToolChecker{
		toolName:     "sh",
		alternatives: []string{"sh"},
		description:  "Client presence lookup",
		severity:     doctor.SeverityError,
		tools:        tools,
	}
}

// NewPackageManagerChecker creates a checker for the package manager front-end.
// A missing one is only a warning because the install step fetches it.
func NewPackageManagerChecker(tools exec.ToolChecker, name string) *ToolChecker {
	return &ToolChecker{
		toolName:     name,
		alternatives: []string{name},
		description:  "Client installation",
		severity:     doctor.SeverityWarning,
		installHint:  "clientup install installs it with the system package manager",
		tools:        tools,
	}
}

// NewSudoChecker creates a checker for sudo
func NewSudoChecker(tools exec.ToolChecker) *ToolChecker {
	return &ToolChecker{
		toolName:     "sudo",
		alternatives: []string{"sudo"},
		description:  "Privileged installation",
		severity:     doctor.SeverityError,
		installHint:  "Install with: apt-get install sudo (as root)",
		tools:        tools,
	}
}

// NewSystemPackageChecker creates a checker for the system package manager
// used to install the front-end when it is missing.
func NewSystemPackageChecker(tools exec.ToolChecker) *ToolChecker {
	return &ToolChecker{
		toolName:     "apt-get",
		alternatives: []string{"apt-get", "dnf", "yum"},
		description:  "Dependency installation",
		severity:     doctor.SeverityWarning,
		installHint:  "Configure linux.dependency_install for your distribution",
		tools:        tools,
	}
}

// Name returns the name of the check
func (c *ToolChecker) Name() string {
	return c.toolName + " available"
}

// Category returns the category of the check
func (*ToolChecker) Category() doctor.Category {
	return doctor.CategoryTools
}

// Check performs the tool availability check
func (c *ToolChecker) Check(_ context.Context) doctor.CheckResult {
	for _, alt := range c.alternatives {
		path, err := c.tools.Locate(alt)
		if err != nil {
			continue
		}

		message := "Found " + path
		if alt != c.toolName {
			message = fmt.Sprintf("Found %s (alternative to %s)", path, c.toolName)
		}

		return doctor.Pass(c.Name(), message)
	}

	details := []string{c.description + " will fail"}
	if c.severity == doctor.SeverityWarning {
		details = []string{c.description + " may be limited"}
	}

	if c.installHint != "" {
		details = append(details, c.installHint)
	}

	return doctor.CheckResult{
		Name:     c.Name(),
		Severity: c.severity,
		Status:   doctor.StatusFail,
		Message:  c.toolName + " not found",
		Details:  details,
	}
}

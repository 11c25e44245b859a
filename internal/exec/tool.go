package exec

import (
	"os/exec"

	"github.com/cockroachdb/errors"
)

// ToolChecker checks for tool availability in PATH.
type ToolChecker interface {
	// IsAvailable checks if a tool is available in PATH.
	IsAvailable(tool string) bool

	// RequireTool returns an error if the tool is not available.
	RequireTool(tool string) error

	// Locate returns the absolute path of a tool.
	Locate(tool string) (string, error)
}

type toolChecker struct {
	lookPath func(string) (string, error)
}

// NewToolChecker creates a ToolChecker backed by exec.LookPath.
func NewToolChecker() ToolChecker {
	return &toolChecker{lookPath: exec.LookPath}
}

func (t *toolChecker) IsAvailable(tool string) bool {
	_, err := t.lookPath(tool)

	return err == nil
}

func (t *toolChecker) RequireTool(tool string) error {
	if !t.IsAvailable(tool) {
		return &ToolNotFoundError{Tool: tool}
	}

	return nil
}

func (t *toolChecker) Locate(tool string) (string, error) {
	path, err := t.lookPath(tool)
	if err != nil {
		return "", errors.WithSecondaryError(&ToolNotFoundError{Tool: tool}, err)
	}

	return path, nil
}

// ToolNotFoundError is returned when a required tool is not found.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return "tool not found in PATH: " + e.Tool
}

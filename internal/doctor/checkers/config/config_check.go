// Package config provides checkers for configuration file validation.
package config

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/config"
	"github.com/smykla-skalski/clientup/internal/doctor"
)

// FileChecker checks that the config file, when present, loads and validates
type FileChecker struct {
	loader *config.KoanfLoader
}

// NewFileChecker creates a new config file checker for path
func NewFileChecker(path string) *FileChecker {
	return &FileChecker{
		loader: config.NewKoanfLoader(path),
	}
}

// Name returns the name of the check
func (*FileChecker) Name() string {
	return "Config valid"
}

// Category returns the category of the check
func (*FileChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check performs the config validity check
func (c *FileChecker) Check(_ context.Context) doctor.CheckResult {
	if !c.loader.HasConfig() {
		return doctor.Skip(c.Name(), "No config file, using defaults").
			WithDetails(
				"Expected at: "+c.loader.ConfigPath(),
				"Create with: clientup config init",
			)
	}

	cfg, err := c.loader.LoadWithoutValidation(nil)
	if err != nil {
		if errors.Is(err, config.ErrInvalidPermissions) {
			return doctor.FailError(c.Name(), "Insecure file permissions").
				WithDetails(
					"File: "+c.loader.ConfigPath(),
					"Config file should not be world-writable",
					fmt.Sprintf("Fix with: chmod %o <config-file>", config.ConfigFileMode),
				).
				WithFixID(doctor.FixPermissions)
		}

		return doctor.FailError(c.Name(), "Failed to load").
			WithDetails(
				"File: "+c.loader.ConfigPath(),
				fmt.Sprintf("Error: %v", err),
			)
	}

	if problems := config.NewValidator().Problems(cfg); len(problems) > 0 {
		details := []string{"File: " + c.loader.ConfigPath()}
		for _, problem := range problems {
			details = append(details, problem.Error())
		}

		return doctor.FailError(c.Name(), fmt.Sprintf("%d validation error(s)", len(problems))).
			WithDetails(details...)
	}

	return doctor.Pass(c.Name(), "Valid")
}

package config

import (
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/github"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the whole configuration and reports every failure.
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	validationErrors := v.Problems(cfg)

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

// Problems returns each validation failure separately.
func (v *Validator) Problems(cfg *Config) []error {
	var validationErrors []error

	validationErrors = append(validationErrors, v.validateClient(cfg.Client)...)
	validationErrors = append(validationErrors, v.validateRelease(cfg.Release)...)
	validationErrors = append(validationErrors, v.validateLinux(cfg.Linux)...)
	validationErrors = append(validationErrors, v.validateTimeouts(cfg.Timeouts)...)

	return validationErrors
}

func (*Validator) validateClient(cfg ClientConfig) []error {
	var errs []error

	if cfg.Name == "" {
		errs = append(errs, errors.WithMessage(ErrEmptyValue, "client.name"))
	}

	if cfg.Package == "" {
		errs = append(errs, errors.WithMessage(ErrEmptyValue, "client.package"))
	}

	return errs
}

func (*Validator) validateRelease(cfg ReleaseConfig) []error {
	var errs []error

	if cfg.ManifestURL == "" && cfg.Repository == "" {
		errs = append(errs, errors.WithMessage(
			ErrEmptyValue, "release.manifest_url or release.repository must be set"))
	}

	if cfg.Repository != "" {
		if _, _, err := github.SplitRepository(cfg.Repository); err != nil {
			errs = append(errs, errors.Mark(errors.Wrap(err, "release.repository"), ErrInvalidOption))
		}
	}

	if cfg.Version != "" {
		if _, err := semver.NewVersion(cfg.Version); err != nil {
			errs = append(errs, errors.Mark(
				errors.Wrapf(err, "release.version %q", cfg.Version), ErrInvalidOption))
		}
	}

	return errs
}

func (*Validator) validateLinux(cfg LinuxConfig) []error {
	var errs []error

	if cfg.PackageManager == "" {
		errs = append(errs, errors.WithMessage(ErrEmptyValue, "linux.package_manager"))
	}

	if len(cfg.DependencyInstall) == 0 || slices.Contains(cfg.DependencyInstall, "") {
		errs = append(errs, errors.WithMessage(ErrEmptyValue, "linux.dependency_install"))
	}

	return errs
}

func (*Validator) validateTimeouts(cfg TimeoutsConfig) []error {
	var errs []error

	for name, d := range map[string]Duration{
		"timeouts.http":    cfg.HTTP,
		"timeouts.command": cfg.Command,
		"timeouts.install": cfg.Install,
	} {
		if d <= 0 {
			errs = append(errs, errors.Wrapf(ErrInvalidOption, "%s must be positive", name))
		}
	}

	return errs
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}

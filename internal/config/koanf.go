package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: CLIENTUP_RELEASE__MANIFEST_URL sets release.manifest_url.
const EnvPrefix = "CLIENTUP_"

// ErrInvalidPermissions is returned when config file has insecure permissions.
var ErrInvalidPermissions = errors.New("config file has insecure permissions")

// flagPaths maps CLI flag names to config keys.
var flagPaths = map[string]string{
	"data-dir":        "paths.data_dir",
	"manifest-url":    "release.manifest_url",
	"repository":      "release.repository",
	"release-version": "release.version",
	"timeout":         "timeouts.install",
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (CLIENTUP_*)
// 3. Config file
// 4. Defaults
type KoanfLoader struct {
	k        *koanf.Koanf
	path     string
	tomlOpts koanf.UnmarshalConf
}

// NewKoanfLoader creates a loader reading the TOML file at path. A missing
// file is not an error.
func NewKoanfLoader(path string) *KoanfLoader {
	return &KoanfLoader{
		k:    koanf.New("."),
		path: path,
		tomlOpts: koanf.UnmarshalConf{
			Tag:       "koanf",
			FlatPaths: false,
		},
	}
}

// Load loads and validates configuration. flags holds values of changed CLI
// flags keyed by flag name.
func (l *KoanfLoader) Load(flags map[string]any) (*Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to load config %s", l.path)
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	// DecoderConfig.Result is set per call, so each load gets a fresh one.
	opts := l.tomlOpts
	opts.DecoderConfig = CustomDecoderConfig()

	var cfg Config
	if err := l.k.UnmarshalWithConf("", &cfg, opts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// ConfigPath returns the TOML file the loader reads.
func (l *KoanfLoader) ConfigPath() string {
	return l.path
}

// HasConfig reports whether the TOML file exists.
func (l *KoanfLoader) HasConfig() bool {
	info, err := os.Stat(l.path)

	return err == nil && !info.IsDir()
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	if path == "" {
		return os.ErrNotExist
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps CLIENTUP_TIMEOUTS__HTTP to timeouts.http.
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "__", ".")

	return key, value
}

// flagsToConfig maps changed CLI flags onto nested config keys. Unknown flags
// are ignored.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any, len(flags))

	for name, value := range flags {
		if key, ok := flagPaths[name]; ok {
			flat[key] = value
		}
	}

	return maps.Unflatten(flat, ".")
}

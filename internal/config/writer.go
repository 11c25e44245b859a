package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when WriteDefaults would overwrite a file.
var ErrConfigExists = errors.New("configuration file already exists")

// WriteDefaults writes the default configuration as TOML to path. It refuses
// to overwrite an existing file unless force is set.
func WriteDefaults(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrapf(ErrConfigExists, "%s", path)
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return errors.Wrap(err, "failed to load defaults")
	}

	data, err := k.Marshal(tomlparser.Parser())
	if err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	if err := os.WriteFile(path, data, ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

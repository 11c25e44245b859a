package config

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"mvdan.cc/sh/v3/shell"
)

// CustomDecoderConfig returns the mapstructure config koanf decodes with.
// Durations accept Go duration strings or a bare number of seconds, also
// when the number arrives as a string from the environment or a flag. Command
// lines accept a TOML array or a single shell-quoted string, which is what
// the environment and flags can carry.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
			commandLineHookFunc(),
		),
		WeaklyTypedInput: true,
	}
}

//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func secondsToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeFor[Duration]() {
			return data, nil
		}

		var secs float64

		switch v := data.(type) {
		case int64:
			secs = float64(v)
		case float64:
			secs = v
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return data, nil
			}

			secs = n
		default:
			return data, nil
		}

		if secs < 0 {
			return nil, errors.Wrapf(ErrNegativeDuration, "got %vs", secs)
		}

		return Duration(time.Duration(secs * float64(time.Second))), nil
	}
}

// commandLineHookFunc splits a string into argv the way sh would.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func commandLineHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeFor[[]string]() {
			return data, nil
		}

		line, _ := data.(string)

		fields, err := shell.Fields(line, noExpansion)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing command line %q", line)
		}

		return fields, nil
	}
}

// noExpansion expands every variable to the empty string.
func noExpansion(string) string { return "" }

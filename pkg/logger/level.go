package logger

import "log/slog"

//go:generate enumer -type=Level -trimprefix=Level -transform=upper -text
//go:generate go run github.com/smykla-skalski/clientup/tools/enumerfix level_enumer.go

// Level is the minimum severity written to the log file. --trace enables
// LevelDebug, --debug enables LevelInfo (installer status lines), and
// LevelError is always on.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelError: slog.LevelError,
}

// ToSlogLevel converts l to its slog equivalent. Unknown values log at info.
func (l Level) ToSlogLevel() slog.Level {
	if lvl, ok := slogLevels[l]; ok {
		return lvl
	}

	return slog.LevelInfo
}

// LevelFromFlags picks the level for the --debug and --trace flags.
func LevelFromFlags(debug, trace bool) Level {
	if trace {
		return LevelDebug
	}

	if debug {
		return LevelInfo
	}

	return LevelError
}

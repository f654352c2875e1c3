package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "GOCFD_AMG_LOG_LEVEL"
	EnvLogNoColor = "GOCFD_AMG_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// New returns a console logger for the profile, with the level and color
// overridable from the environment.
func New(profile Profile, out io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	level := zerolog.InfoLevel
	switch profile {
	case ProfileTest:
		level = zerolog.DebugLevel
		cw.NoColor = true
		cw.PartsExclude = []string{zerolog.TimestampFieldName}
	default:
		cw.NoColor = !isTerminal(out)
	}
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor))); err == nil {
		cw.NoColor = v
	}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process-wide base logger. Components derive their own
// with .With().Str("component", ...).
//
// Dev mode writes colored console lines at debug level; otherwise JSON at info.
func New(devMode bool) zerolog.Logger {
	if devMode {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

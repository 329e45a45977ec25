// Package applog centralizes structured logging. Every subsystem gets
// its own sub-logger (via With().Str("component", ...)) so log lines
// are filterable without string-matching on free text.
package applog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is an alias of zerolog.Logger, so call sites can name the
// type without importing zerolog directly.
type Logger = zerolog.Logger

var root zerolog.Logger

func init() {
	root = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
}

// Configure sets the global minimum level and output destination;
// output is zerolog's JSON encoding whatever w is. Call once at
// startup, before any component logger is derived.
func Configure(level zerolog.Level, w io.Writer) {
	root = zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// For returns a component-scoped sub-logger, e.g. applog.For("engine").
func For(component string) Logger {
	return root.With().Str("component", component).Logger()
}

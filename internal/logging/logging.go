// Package logging sets up the zerolog loggers shared by the CLI, the graph
// runner and the nodes.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConsoleTimeFormat is the timestamp layout of human-readable output.
const ConsoleTimeFormat = "15:04:05"

// Level maps the verbose switch to a zerolog level.
func Level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Init replaces the global logger with one writing to stderr.
func Init(verbose, json bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(Level(verbose))
	log.Logger = New(os.Stderr, verbose, json)
}

// New returns a timestamped logger on w. Without json the output goes
// through a console writer.
func New(w io.Writer, verbose, json bool) zerolog.Logger {
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: ConsoleTimeFormat}
	}
	return zerolog.New(w).Level(Level(verbose)).With().Timestamp().Logger()
}

// Component tags logger with the subsystem emitting it.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

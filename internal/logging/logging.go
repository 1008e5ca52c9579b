// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger on stderr. Only warnings and errors are shown
// unless verbose is set, so the pipeline's own status lines stay readable.
func New(verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter is New with a custom destination
func NewWithWriter(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

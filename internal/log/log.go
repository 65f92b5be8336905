// Package log configures the zerolog loggers used by the command line tools.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the named level
// ("trace", "debug", "info", "warn", "error"). An empty level means info.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return zerolog.Nop(), fmt.Errorf("log: %w", err)
		}
	}
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Module returns a child logger tagged with a module name.
func Module(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("module", name).Logger()
}

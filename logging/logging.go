// Package logging holds the process-wide structured logger shared by every
// other package. It follows the same package-level-logger-with-accessors
// shape the rest of this repository's ambient code uses, rather than
// threading a logger through every constructor.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-level logger. cmd/yiimed calls this once at
// startup, before loading any config file, when -verbose lowers the level to
// debug.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the current package-level logger.
func Logger() zerolog.Logger {
	return logger
}

// Package logging provides the diagnostic logger behind --verbose.
// Diagnostics always go to stderr; normal successful runs stay silent.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates the application logger. Verbose enables debug output;
// otherwise only warnings and errors surface.
func New(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "devflake",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// Package applog builds the leveled loggers used by the commands and the server.
package applog

import (
	"io"

	colorable "github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
)

// Format is the log line layout.
const Format = `%{time:15:04:05.000} [%{level:.4s}] %{message}`

// New returns a logger for module writing colored lines to stderr. Debug
// messages are only emitted when verbose is set.
func New(module string, verbose bool) *logging.Logger {
	return NewWithWriter(module, verbose, colorable.NewColorableStderr())
}

// NewWithWriter is New writing to w.
func NewWithWriter(module string, verbose bool, w io.Writer) *logging.Logger {
	backend := logging.NewLogBackend(w, "", 0)
	formatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(Format))

	leveled := logging.AddModuleLevel(formatter)
	if verbose {
		leveled.SetLevel(logging.DEBUG, module)
	} else {
		leveled.SetLevel(logging.INFO, module)
	}

	log := logging.MustGetLogger(module)
	log.SetBackend(leveled)
	return log
}

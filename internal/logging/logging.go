// Package logging builds the structured loggers shared by the binaries.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// EnvLevel names the variable holding the log level.
const EnvLevel = "LOG_LEVEL"

// New returns a logger writing to w at the named level. Unknown levels fall
// back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

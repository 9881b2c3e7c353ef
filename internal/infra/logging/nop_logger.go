package logging

import (
	"log/slog"
)

// NewNopLogger creates a logger that discards all output, for tests and
// for loggers obtained before Configure.
func NewNopLogger() Logger {
	return slog.New(slog.DiscardHandler)
}

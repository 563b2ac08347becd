package ports

import "io"

// Logger is the engine's structured logging interface.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a diagnostic message, visible only in debug mode.
	Debug(msg string)

	// Info logs an informational message.
	Info(msg string)

	// Warn logs a warning message.
	Warn(msg string)

	// Error logs an error with its cause chain.
	Error(err error)

	// SetDebug toggles debug-level output.
	SetDebug(enable bool)

	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)

	// SetOutput updates the output destination.
	SetOutput(w io.Writer)
}

// Package logging provides a logging abstraction layer that decouples the application
// from specific logging frameworks. This allows for easier testing and flexibility
// in choosing logging implementations.
package logging

// Logger defines the interface for structured logging throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Discard returns a Logger that drops every entry. Components fall back to
// it when constructed without a logger.
func Discard() Logger {
	return discard{}
}

type discard struct{}

func (discard) Debug(string, ...Field)                 {}
func (discard) Info(string, ...Field)                  {}
func (discard) Warn(string, ...Field)                  {}
func (discard) Error(string, ...Field)                 {}
func (d discard) WithError(error) Logger               { return d }
func (d discard) WithField(string, interface{}) Logger { return d }
func (d discard) WithFields(...Field) Logger           { return d }

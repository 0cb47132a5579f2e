// Package logger defines the logging interface used across the core. The
// zerolog-backed implementation lives under infra/logger.
package logger

// Logger is a leveled, component-scoped logger.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

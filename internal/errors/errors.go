// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (user input,
// engine failure, resource shortfall) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
//
// A completed search that finds no factor is a legitimate outcome, not a
// failure, and exits with ExitSuccess.
const (
	ExitSuccess       = 0   // Indicates successful execution (including "no factor found").
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates an engine reported an invalid or inconsistent factor.
	ExitErrorConfig   = 4   // Indicates a configuration or input error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user input error, such as a malformed target
// integer, an invalid memory string, or a claimed factor that does not
// divide the target. It indicates that the application cannot proceed due
// to incorrect user input.
type ConfigError struct {
	// Message explains the specific input error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EngineError encapsulates a failure inside the arithmetic engine (context
// construction, an inconsistent multipoint evaluation, a degree mismatch)
// while preserving the original cause. A factoring run that hits an
// EngineError aborts gracefully with a diagnostic rather than guessing at
// a result.
type EngineError struct {
	// Op names the engine operation that failed (e.g., "new context").
	Op string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for an EngineError.
func (e EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("engine: %s", e.Op)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e EngineError) Unwrap() error { return e.Cause }

// NewEngineError creates a new EngineError for the named operation.
//
// Parameters:
//   - op: The engine operation that failed.
//   - cause: The underlying error (can be nil).
//
// Returns:
//   - error: A new EngineError instance.
func NewEngineError(op string, cause error) error {
	return EngineError{Op: op, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

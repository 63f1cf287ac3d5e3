package errors

import (
	"fmt"
)

// LauncherError is the structured error type for amanlaunch.
// It carries enough context for logging and for the CLI to print a hint.
type LauncherError struct {
	// Code is the unique error code (e.g., "ERR_401_INVALID_MODE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *LauncherError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LauncherError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a LauncherError with the same code.
func (e *LauncherError) Is(target error) bool {
	if t, ok := target.(*LauncherError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *LauncherError) WithDetail(key, value string) *LauncherError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *LauncherError) WithSuggestion(suggestion string) *LauncherError {
	e.Suggestion = suggestion
	return e
}

// New creates a new LauncherError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *LauncherError {
	return &LauncherError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *LauncherError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *LauncherError {
	return New(ErrCodeFileNotFound, message, cause)
}

// InvalidMode reports a request for a mode outside the closed mode set.
func InvalidMode(name string) *LauncherError {
	return New(ErrCodeInvalidMode, fmt.Sprintf("invalid mode %q", name), nil).
		WithDetail("mode", name).
		WithSuggestion("use one of: apps, files, run")
}

// EntityNotFound reports a selection of an identifier absent from the active catalog.
func EntityNotFound(mode, id string) *LauncherError {
	return New(ErrCodeEntityNotFound, fmt.Sprintf("entity %q not found in %s", id, mode), nil).
		WithDetail("mode", mode).
		WithDetail("id", id)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if le, ok := asLauncherError(err); ok {
		return le.Retryable
	}
	return false
}

// GetCode extracts the error code from a LauncherError.
// Returns empty string if not a LauncherError.
func GetCode(err error) string {
	if le, ok := asLauncherError(err); ok {
		return le.Code
	}
	return ""
}

// GetCategory extracts the category from a LauncherError.
func GetCategory(err error) Category {
	if le, ok := asLauncherError(err); ok {
		return le.Category
	}
	return ""
}

// asLauncherError walks the wrap chain looking for a LauncherError.
func asLauncherError(err error) (*LauncherError, bool) {
	for err != nil {
		if le, ok := err.(*LauncherError); ok {
			return le, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

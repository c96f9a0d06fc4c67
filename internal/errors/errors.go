package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the structured error type shared by the CLI, daemon and MCP server.
type AppError struct {
	// Code is the unique error code (e.g., "ERR_201_DICTIONARY_NOT_FOUND").
	Code string

	Message  string
	Category Category
	Severity Severity

	// Details carries extra context such as the dictionary path.
	Details map[string]string

	Cause error

	// Retryable marks transient failures (daemon transport).
	Retryable bool

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code, so errors.Is(err, &AppError{Code: ...}) works.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion attaches an actionable suggestion.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates an AppError. Category, severity and retryability derive from the code.
func New(code string, message string, cause error) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an AppError whose message is err's message.
func Wrap(code string, err error) *AppError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration error.
func ConfigError(message string, cause error) *AppError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// DictionaryNotFound reports a dictionary source that does not exist.
func DictionaryNotFound(path string, cause error) *AppError {
	return New(ErrCodeDictionaryNotFound, "dictionary not found: "+path, cause).
		WithDetail("path", path).
		WithSuggestion("Check dictionary.paths in .anagrams.yaml or set dictionary.fallback: embedded")
}

// DaemonError creates a daemon transport error. Transport errors are retryable.
func DaemonError(message string, cause error) *AppError {
	return New(ErrCodeDaemonUnavailable, message, cause).
		WithSuggestion("Start the daemon with 'anagrams daemon start' or pass --local")
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *AppError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *AppError {
	return New(ErrCodeInternal, message, cause)
}

// As finds the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsRetryable reports whether err carries a retryable AppError.
func IsRetryable(err error) bool {
	if ae, ok := As(err); ok {
		return ae.Retryable
	}
	return false
}

// IsFatal reports whether err carries a fatal AppError.
func IsFatal(err error) bool {
	if ae, ok := As(err); ok {
		return ae.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code, or "" if err is not an AppError.
func GetCode(err error) string {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return ""
}

// GetCategory extracts the category, or "" if err is not an AppError.
func GetCategory(err error) Category {
	if ae, ok := As(err); ok {
		return ae.Category
	}
	return ""
}

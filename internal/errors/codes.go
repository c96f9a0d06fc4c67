// Package errors provides structured error handling for anagrams.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Dictionary I/O errors
//   - 3XX: Daemon transport errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	CategoryConfig     Category = "CONFIG"
	CategoryIO         Category = "IO"
	CategoryTransport  Category = "TRANSPORT"
	CategoryValidation Category = "VALIDATION"
	CategoryInternal   Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal means the process cannot continue (no dictionary at all).
	SeverityFatal   Severity = "FATAL"
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"

	// Dictionary I/O errors (200-299)
	ErrCodeDictionaryNotFound   = "ERR_201_DICTIONARY_NOT_FOUND"
	ErrCodeDictionaryPermission = "ERR_202_DICTIONARY_PERMISSION"
	ErrCodeDictionaryRead       = "ERR_203_DICTIONARY_READ"
	ErrCodeNoDictionary         = "ERR_204_NO_DICTIONARY"

	// Daemon transport errors (300-399)
	ErrCodeDaemonUnavailable = "ERR_301_DAEMON_UNAVAILABLE"
	ErrCodeDaemonTimeout     = "ERR_302_DAEMON_TIMEOUT"
	ErrCodeDaemonRunning     = "ERR_303_DAEMON_ALREADY_RUNNING"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeQueryEmpty   = "ERR_402_QUERY_EMPTY"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeBuildFailed = "ERR_502_BUILD_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "201" from "ERR_201_DICTIONARY_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryTransport
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeNoDictionary:
		return SeverityFatal
	case ErrCodeDaemonRunning:
		return SeverityInfo
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeDaemonUnavailable, ErrCodeDaemonTimeout:
		return true
	default:
		return false
	}
}

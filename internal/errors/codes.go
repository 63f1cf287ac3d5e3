// Package errors provides structured error handling for amanlaunch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO and discovery errors
//   - 4XX: Validation errors (bad mode, unknown entity, bad scorer)
//   - 5XX: Internal and launch errors
//
// Empty catalogs, non-matching candidates and stale queries are not errors
// and never surface through this package.
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file, cache and discovery errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates caller input errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigWrite    = "ERR_103_CONFIG_WRITE"

	// IO errors (200-299)
	ErrCodeFileNotFound     = "ERR_201_FILE_NOT_FOUND"
	ErrCodePermission       = "ERR_202_PERMISSION_DENIED"
	ErrCodeCacheCorrupt     = "ERR_203_CACHE_CORRUPT"
	ErrCodeLockTimeout      = "ERR_204_LOCK_TIMEOUT"
	ErrCodeDiscoveryFailed  = "ERR_205_DISCOVERY_FAILED"
	ErrCodeWatcherFailed    = "ERR_206_WATCHER_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidMode     = "ERR_401_INVALID_MODE"
	ErrCodeInvalidQuery    = "ERR_402_INVALID_QUERY"
	ErrCodeEntityNotFound  = "ERR_403_ENTITY_NOT_FOUND"
	ErrCodeInvalidScorer   = "ERR_404_INVALID_SCORER"
	ErrCodeDuplicateEntity = "ERR_405_DUPLICATE_ENTITY"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeLaunchFailed = "ERR_502_LAUNCH_FAILED"
)

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrInvalidMode    = &LauncherError{Code: ErrCodeInvalidMode}
	ErrEntityNotFound = &LauncherError{Code: ErrCodeEntityNotFound}
	ErrInvalidScorer  = &LauncherError{Code: ErrCodeInvalidScorer}
	ErrLockTimeout    = &LauncherError{Code: ErrCodeLockTimeout}
	ErrCacheCorrupt   = &LauncherError{Code: ErrCodeCacheCorrupt}
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "401" from "ERR_401_INVALID_MODE")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityFatal
	case ErrCodeCacheCorrupt, ErrCodeDuplicateEntity:
		// Recovered by rescanning or dropping the duplicate.
		return SeverityWarning
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeLockTimeout, ErrCodeDiscoveryFailed, ErrCodeWatcherFailed:
		return true
	default:
		return false
	}
}

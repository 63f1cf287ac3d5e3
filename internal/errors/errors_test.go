package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncherError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("permission denied")

	// When: wrapping with LauncherError
	le := New(ErrCodePermission, "cannot read /Applications", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, le)
	assert.Equal(t, originalErr, errors.Unwrap(le))
	assert.True(t, errors.Is(le, originalErr))
}

func TestLauncherError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "invalid mode",
			code:     ErrCodeInvalidMode,
			message:  "invalid mode \"web\"",
			expected: "[ERR_401_INVALID_MODE] invalid mode \"web\"",
		},
		{
			name:     "launch failed",
			code:     ErrCodeLaunchFailed,
			message:  "open exited with 1",
			expected: "[ERR_502_LAUNCH_FAILED] open exited with 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestLauncherError_Is_MatchesByCode(t *testing.T) {
	// Given: an invalid mode error wrapped by a caller
	err := fmt.Errorf("switch mode: %w", InvalidMode("web"))

	// Then: it matches the sentinel but not a different code
	assert.True(t, errors.Is(err, ErrInvalidMode))
	assert.False(t, errors.Is(err, ErrEntityNotFound))
}

func TestNew_DerivesMetadataFromCode(t *testing.T) {
	tests := []struct {
		code      string
		category  Category
		severity  Severity
		retryable bool
	}{
		{ErrCodeConfigInvalid, CategoryConfig, SeverityError, false},
		{ErrCodeLockTimeout, CategoryIO, SeverityWarning, true},
		{ErrCodeCacheCorrupt, CategoryIO, SeverityWarning, false},
		{ErrCodeInvalidMode, CategoryValidation, SeverityError, false},
		{ErrCodeInternal, CategoryInternal, SeverityFatal, false},
		{"BAD", CategoryInternal, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "msg", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
			assert.Equal(t, tt.retryable, err.Retryable)
		})
	}
}

func TestInvalidMode_CarriesDetailAndSuggestion(t *testing.T) {
	err := InvalidMode("web")

	assert.Equal(t, "web", err.Details["mode"])
	assert.Contains(t, err.Suggestion, "apps")
	assert.Equal(t, ErrCodeInvalidMode, GetCode(err))
}

func TestEntityNotFound_CarriesIdentifiers(t *testing.T) {
	err := EntityNotFound("files", "/tmp/x")

	assert.Equal(t, "/tmp/x", err.Details["id"])
	assert.Equal(t, "files", err.Details["mode"])
	assert.True(t, errors.Is(err, ErrEntityNotFound))
}

func TestHelpers_WorkThroughWrapChain(t *testing.T) {
	// Given: a retryable error wrapped twice
	inner := New(ErrCodeLockTimeout, "lock busy", nil)
	err := fmt.Errorf("load cache: %w", fmt.Errorf("acquire: %w", inner))

	// Then: helpers find it
	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrCodeLockTimeout, GetCode(err))
	assert.Equal(t, CategoryIO, GetCategory(err))
}

func TestHelpers_PlainErrors(t *testing.T) {
	err := errors.New("plain")

	assert.False(t, IsRetryable(err))
	assert.Empty(t, GetCode(err))
	assert.Empty(t, GetCategory(nil))
}

// Package errors provides standardized error handling for the collection generator.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSpecReadFailed      ErrorCode = "SPEC_READ_FAILED"
	ErrCodeSpecParseFailed     ErrorCode = "SPEC_PARSE_FAILED"
	ErrCodeSpecDownloadFailed  ErrorCode = "SPEC_DOWNLOAD_FAILED"
	ErrCodeSpecDownloadTimeout ErrorCode = "SPEC_DOWNLOAD_TIMEOUT"

	ErrCodeCollectionReadFailed  ErrorCode = "COLLECTION_READ_FAILED"
	ErrCodeCollectionParseFailed ErrorCode = "COLLECTION_PARSE_FAILED"

	ErrCodeConfigNotFound         ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigParseFailed      ErrorCode = "CONFIG_PARSE_FAILED"
	ErrCodeConfigValidationFailed ErrorCode = "CONFIG_VALIDATION_FAILED"

	ErrCodeOutputEncodeFailed ErrorCode = "OUTPUT_ENCODE_FAILED"
	ErrCodeOutputWriteFailed  ErrorCode = "OUTPUT_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSpecReadFailedError creates a non-retryable error for an unreadable API document.
func NewSpecReadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpecReadFailed,
		Message:   "OpenAPI document could not be read",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSpecParseFailedError creates a non-retryable error for a malformed API document.
func NewSpecParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpecParseFailed,
		Message:   "OpenAPI document could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSpecDownloadFailedError creates a retryable error for a failed remote fetch.
func NewSpecDownloadFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpecDownloadFailed,
		Message:   "OpenAPI document download failed",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSpecDownloadTimeoutError creates a retryable error for a remote fetch timeout.
func NewSpecDownloadTimeoutError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpecDownloadTimeout,
		Message:   "OpenAPI document download timed out",
		Details:   fmt.Sprintf("url: %s", url),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCollectionReadFailedError creates a non-retryable error for an unreadable collection file.
func NewCollectionReadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCollectionReadFailed,
		Message:   "Postman collection could not be read",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCollectionParseFailedError creates a non-retryable error for a malformed collection file.
func NewCollectionParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCollectionParseFailed,
		Message:   "Postman collection could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigNotFoundError creates a non-retryable error for a missing config file.
func NewConfigNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigNotFound,
		Message:   "Generator configuration file not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigParseFailedError creates a non-retryable error for unparseable configuration.
func NewConfigParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigParseFailed,
		Message:   "Generator configuration could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigValidationFailedError creates a non-retryable error for configuration
// that parses but violates the config schema.
func NewConfigValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigValidationFailed,
		Message:   "Generator configuration failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutputEncodeFailedError creates a non-retryable error for collection serialization failures.
func NewOutputEncodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputEncodeFailed,
		Message:   "Generated collection could not be encoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutputWriteFailedError creates a non-retryable error for output file write failures.
func NewOutputWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputWriteFailed,
		Message:   "Generated collection could not be written",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSpecDownloadFailed:
		return 3
	case ErrCodeSpecDownloadTimeout:
		return 2
	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SPEC"):
		return "SPEC"
	case strings.HasPrefix(codeStr, "COLLECTION"):
		return "COLLECTION"
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.HasPrefix(codeStr, "OUTPUT"):
		return "OUTPUT"
	default:
		return "OTHER"
	}
}

// AsStandardError extracts a *StandardError from err when possible.
func AsStandardError(err error) (*StandardError, bool) {
	stdErr, ok := err.(*StandardError)
	return stdErr, ok
}

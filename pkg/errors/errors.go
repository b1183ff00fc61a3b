package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string that tests
// and callers can match on.
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Experiment selection and gating
	ErrUnknownExperiment  ErrorCode = "UNKNOWN_EXPERIMENT"
	ErrIncompatibleSystem ErrorCode = "INCOMPATIBLE_SYSTEM"

	// Package provider
	ErrPackageUnavailable ErrorCode = "PACKAGE_UNAVAILABLE"

	// Binding resolution
	ErrResolution ErrorCode = "RESOLUTION_FAILED"

	// Swap engine
	ErrConflict       ErrorCode = "CONFLICT"
	ErrRollbackFailed ErrorCode = "ROLLBACK_FAILED"
	ErrRestoreFailed  ErrorCode = "RESTORE_FAILED"

	// System probing
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"
	ErrDistroUnknown ErrorCode = "DISTRO_UNKNOWN"

	// Configuration
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Filesystem
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
)

// OxidizrError is a structured error carrying a stable code, a message and
// optional details such as the filesystem paths involved. Rollback failures
// in particular must surface their exact paths, so details are kept
// machine-readable rather than flattened into the message.
type OxidizrError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface.
func (e *OxidizrError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *OxidizrError) Unwrap() error {
	return e.Wrapped
}

// Is matches two OxidizrErrors by code, so errors.Is can be used with
// sentinel-style comparisons.
func (e *OxidizrError) Is(target error) bool {
	var targetErr *OxidizrError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OxidizrError with the given code and message.
func New(code ErrorCode, message string) *OxidizrError {
	return &OxidizrError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OxidizrError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *OxidizrError {
	return &OxidizrError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error. Returns nil when err is nil so call sites
// can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *OxidizrError {
	if err == nil {
		return nil
	}
	return &OxidizrError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OxidizrError {
	if err == nil {
		return nil
	}
	return &OxidizrError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error and returns it for chaining.
func (e *OxidizrError) WithDetail(key string, value interface{}) *OxidizrError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var oerr *OxidizrError
	if errors.As(err, &oerr) {
		return oerr.Code == code
	}
	return false
}

// GetCode returns the code of err, or ErrUnknown if err is not an
// OxidizrError.
func GetCode(err error) ErrorCode {
	var oerr *OxidizrError
	if errors.As(err, &oerr) {
		return oerr.Code
	}
	return ErrUnknown
}

// GetDetails returns the details of err, or nil for foreign errors.
func GetDetails(err error) map[string]interface{} {
	var oerr *OxidizrError
	if errors.As(err, &oerr) {
		return oerr.Details
	}
	return nil
}

// Package errors provides coded errors for the converter.
//
// Every fatal conversion failure carries one of the codes below so callers
// and tests can branch on the failure category instead of message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category.
type ErrorCode string

const (
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Action resolution
	ErrAmbiguousAction ErrorCode = "AMBIGUOUS_ACTION"
	ErrNoAction        ErrorCode = "NO_ACTION"

	// Translation
	ErrUnsupportedConstruct ErrorCode = "UNSUPPORTED_CONSTRUCT"
	ErrNotImplementedYet    ErrorCode = "NOT_IMPLEMENTED_YET"
	ErrModuleNotSupported   ErrorCode = "MODULE_NOT_SUPPORTED"

	// Input documents
	ErrFileRead ErrorCode = "FILE_READ"
	ErrParse    ErrorCode = "PARSE"

	// Configuration
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// Error is a structured error with a code and optional details.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates an error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if err (or anything it wraps) has the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var codedErr *Error
	if errors.As(err, &codedErr) {
		return codedErr.Code == code
	}
	return false
}

// GetErrorCode returns the code of err, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var codedErr *Error
	if errors.As(err, &codedErr) {
		return codedErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of err, or nil.
func GetErrorDetails(err error) map[string]interface{} {
	var codedErr *Error
	if errors.As(err, &codedErr) {
		return codedErr.Details
	}
	return nil
}

// IsFatal reports whether err aborts a conversion. Only a missing module
// translation degrades instead of aborting.
func IsFatal(err error) bool {
	return err != nil && !IsErrorCode(err, ErrModuleNotSupported)
}

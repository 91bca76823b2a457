// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration, orders and signals
//   - Feed errors (200-299): Market feed health and stream ingestion failures
//   - Order lifecycle errors (300-399): Illegal order state transitions
//   - Portfolio errors (400-499): Ledger bookkeeping failures
//   - Execution errors (500-599): Fill generation failures
//   - Engine errors (600-699): Trading loop and callback failures
//   - Repository errors (700-799): Account event journal failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidOrder, "order quantity must be non-zero")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeUnknownOrder, "unknown client order id %s", cid)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeExecutionFailed, "failed to generate fill", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeCashInvariant) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientFundsError reports a fill or reservation that would drive free
// cash below zero.
type InsufficientFundsError struct {
	Required  float64 // Cash the operation needs
	Available float64 // Free cash at the time of the check
	Asset     string  // Quote asset the cash is held in
	Message   string  // Human-readable message
}

// NewInsufficientFundsError creates a new InsufficientFundsError.
func NewInsufficientFundsError(required, available float64, asset string) *InsufficientFundsError {
	return &InsufficientFundsError{
		Required:  required,
		Available: available,
		Asset:     asset,
		Message:   fmt.Sprintf("insufficient %s: required %.8f, available %.8f", asset, required, available),
	}
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return e.Message
}

// IsInsufficientFundsError checks if an error is an InsufficientFundsError.
// It uses errors.As to check the error chain.
func IsInsufficientFundsError(err error) bool {
	var fundsErr *InsufficientFundsError

	return errors.As(err, &fundsErr)
}

// Package errors provides structured error types for nsize.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engines and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The three codes callers of the engines usually care about are:
//   - SIZE_CHANGE_INFEASIBLE: no size change satisfying every divisibility
//     constraint exists within the active exactness policy
//   - SELECTION_SHAPE_INVALID: a utility vector does not match the size of
//     the vertex it scores (a programming error, never retried)
//   - APPLY_HOOK_FAILURE: a caller supplied mutation hook failed while a
//     plan was committed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSizeChangeInfeasible, "cannot change %s by %d", name, delta)
//	if errors.Is(err, errors.ErrCodeSizeChangeInfeasible) {
//	    // Handle infeasible request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeApplyHookFailure, hookErr, "resize output of %s", name)
//
// [ExitCode] maps codes to process exit statuses for the command line.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine errors
	ErrCodeSizeChangeInfeasible  Code = "SIZE_CHANGE_INFEASIBLE"
	ErrCodeSelectionShapeInvalid Code = "SELECTION_SHAPE_INVALID"
	ErrCodeSelectionInfeasible   Code = "SELECTION_INFEASIBLE"
	ErrCodeApplyHookFailure      Code = "APPLY_HOOK_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given code around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err has the given error code. Only the outermost
// *Error of the chain is inspected, so a wrapped APPLY_HOOK_FAILURE stays
// an APPLY_HOOK_FAILURE whatever its cause carries.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of an *Error without its code prefix, or
// err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Process exit codes returned by [ExitCode].
const (
	ExitOK         = 0
	ExitFailure    = 1  // internal and uncoded errors
	ExitInfeasible = 2  // SIZE_CHANGE_INFEASIBLE, SELECTION_INFEASIBLE
	ExitHook       = 3  // APPLY_HOOK_FAILURE
	ExitUsage      = 64 // invalid input, graph, format or missing resource
)

// ExitCode maps err to a process exit code. A nil error maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeSizeChangeInfeasible, ErrCodeSelectionInfeasible:
		return ExitInfeasible
	case ErrCodeApplyHookFailure:
		return ExitHook
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidFormat,
		ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeUnsupported:
		return ExitUsage
	}
	return ExitFailure
}

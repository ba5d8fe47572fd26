package errors

import "fmt"

// ErrorCode represents a Stash error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrStoreOpen      ErrorCode = "STORE_OPEN"      // 500
	ErrStoreWrite     ErrorCode = "STORE_WRITE"     // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// StashError represents a structured error with code, status, and details.
type StashError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *StashError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *StashError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StashError {
	return &StashError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an item or bucket cannot be found.
func NewNotFound(identifier string) *StashError {
	return &StashError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewStoreOpen creates a 500 error for a store that failed to initialize.
// Fatal for main-process startup; the share process logs it and reports the
// affected attachments as failed instead of crashing.
func NewStoreOpen(err error) *StashError {
	msg := "store failed to open"
	if err != nil {
		msg = fmt.Sprintf("store failed to open: %v", err)
	}
	return &StashError{
		Code:    ErrStoreOpen,
		Status:  500,
		Message: msg,
		Cause:   err,
	}
}

// NewStoreWrite creates a 500 error for a save that failed after a mutation.
// The mutation is lost; there is no automatic retry.
func NewStoreWrite(op string, err error) *StashError {
	msg := fmt.Sprintf("store write failed: %s", op)
	if err != nil {
		msg = fmt.Sprintf("store write failed: %s: %v", op, err)
	}
	return &StashError{
		Code:    ErrStoreWrite,
		Status:  500,
		Message: msg,
		Details: map[string]any{"operation": op},
		Cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StashError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StashError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Cause:   err,
	}
}

// Is checks if an error is a StashError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StashError); ok {
		return sErr.Code == code
	}
	return false
}

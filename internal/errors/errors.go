package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type of the collaborator layers (config, dataset
// store, file loader, CLI). Statistical preconditions use domain/core.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeFileError     = "FILE_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// New creates an AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap adds context to err, keeping the code of an AppError cause
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: GetCode(err), Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain,
// INTERNAL_ERROR for any other error
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// HasCode reports whether err carries code
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExists(resource string) *AppError {
	return New(CodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// FileError wraps an I/O failure on path
func FileError(path string, cause error) *AppError {
	return &AppError{Code: CodeFileError, Message: fmt.Sprintf("cannot read %s", path), Cause: cause}
}

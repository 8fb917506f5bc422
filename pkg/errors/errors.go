package errors

import (
	"errors"
	"fmt"
)

// Taxonomy shared by the session manager and the composer.
var (
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUpstream             = errors.New("upstream failure")
	ErrNotFound             = errors.New("not found")
	ErrBusy                 = errors.New("request already in progress")
	ErrNotInitialized       = errors.New("session not initialized")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("not authenticated")
)

// Codes attached to user-facing errors.
const (
	CodeEmptyCredentials = "empty_credentials"
	CodeInvalidLogin     = "invalid_credentials"
	CodeEmptyContent     = "empty_content"
	CodeImageTooLarge    = "image_too_large"
	CodeImageType        = "image_type"
	CodeUploadFailed     = "upload_failed"
	CodeCreateFailed     = "create_failed"
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the outermost user-facing message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the pipeline. AuthError and SessionNotFound belong
// to the platform session lifecycle; the rest belong to publication and
// persistence.
var (
	ErrAuth             = errors.New("authentication rejected")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTransientPublish = errors.New("transient publish failure")
	ErrExhaustedRetries = errors.New("retries exhausted")
	ErrStore            = errors.New("store failure")
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

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsAuth returns true if the error means the platform rejected our credentials
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsSessionNotFound returns true if the error means no usable cached session exists
func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// IsTransientPublish returns true if the error is a retryable publish failure
func IsTransientPublish(err error) bool {
	return errors.Is(err, ErrTransientPublish)
}

// IsExhaustedRetries returns true if all publish attempts for a part failed
func IsExhaustedRetries(err error) bool {
	return errors.Is(err, ErrExhaustedRetries)
}

// IsStore returns true if the error came from the persistence layer
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}

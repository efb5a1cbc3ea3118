// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP boundary: NotFound, InvalidInput and Conflict.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Error carries a caller-facing message together with its kind. The kind is
// exposed through Unwrap so callers match with errors.Is.
type Error struct {
	kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.kind }

func NotFound(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...interface{}) error {
	return &Error{kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

package adapter

import (
	"errors"
	"fmt"
)

// Translation errors. Every failure is returned to the caller unchanged apart
// from wrapping; nothing is retried.
var (
	// ErrInvalidURL is returned when neither the override header nor the request URL is absolute
	ErrInvalidURL = errors.New("invalid request URL")

	// ErrBodyRead is returned when the response body cannot be materialized
	ErrBodyRead = errors.New("response body read failed")

	// ErrContextLoader is returned when the user supplied load context function fails
	ErrContextLoader = errors.New("load context failed")
)

// Error records the translation step that failed.
type Error struct {
	Op  string // create_request, load_context, handle_request, send_response
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("adapter %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

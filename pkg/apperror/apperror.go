// Package apperror carries an HTTP-equivalent status alongside a user-facing message.
package apperror

import (
	"errors"
	"net/http"
)

// Error is an error with a status code and a message safe to show to users.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP-equivalent status.
func (e *Error) StatusCode() int {
	return e.Status
}

// Is matches two *Error values with the same status and message, so package-level
// instances work as sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status && t.Message == e.Message
}

// New creates an Error without a cause.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap creates an Error around err.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

type statusCoder interface {
	StatusCode() int
}

// StatusOf returns the status carried by the first error in err's chain that has one,
// or 500.
func StatusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// Package servererrors defines the error type that carries an HTTP status
// code from the service layer up to the error middleware.
package servererrors

import (
	"errors"
	"net/http"
)

// ServerError is an error tagged with a human readable message and a numeric
// status code. Err holds the underlying cause, if any, and is never shown to
// clients.
type ServerError struct {
	Code    int
	Message string
	Err     error
}

func New(code int, message string, err error) *ServerError {
	return &ServerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *ServerError {
	return New(http.StatusNotFound, message, nil)
}

func BadRequest(message string) *ServerError {
	return New(http.StatusBadRequest, message, nil)
}

func Internal(message string, err error) *ServerError {
	return New(http.StatusInternalServerError, message, err)
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// As reports whether err is or wraps a *ServerError and returns it.
func As(err error) (*ServerError, bool) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr, true
	}
	return nil, false
}

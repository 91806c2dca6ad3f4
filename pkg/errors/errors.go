// Package errors holds the typed failures the services return. Each one pairs
// a stable code with the HTTP status the API answers with; the console prints
// only the message.
package errors

import (
	"errors"
	"net/http"
)

// Error is a coded failure. Err keeps the underlying cause for logging and is
// never serialised.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Err == nil:
		return e.Message
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *Error by code, so the standard errors.Is treats a clone
// with a custom message as its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.Code == t.Code
}

// Kinds returned by the services.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap builds an error of the given kind around cause.
func Wrap(cause error, code string, status int, message string) *Error {
	e := New(code, status, message)
	e.Err = cause
	return e
}

// Clone copies kind, replacing the message unless it is empty.
func Clone(kind *Error, message string) *Error {
	if kind == nil {
		return nil
	}
	out := *kind
	if message != "" {
		out.Message = message
	}
	return &out
}

// FromError returns the first *Error in the chain of err. Anything else is
// reported as internal with err kept as the cause.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Is reports whether err carries kind's code.
func Is(err error, kind *Error) bool {
	if kind == nil {
		return false
	}
	return errors.Is(err, kind)
}

// Package domainerrors defines the closed set of failure kinds the API can
// report to a caller. Every handler failure is either one of these or an
// unclassified fault, which the dispatcher reports as CodeInternal.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a failure kind. The set is closed.
type Code string

const (
	CodeBadRequest       Code = "bad_request"
	CodeNotFound         Code = "not_found"
	CodeMethodNotAllowed Code = "method_not_allowed"
	CodeUnauthenticated  Code = "unauthenticated"
	CodeUnauthorized     Code = "unauthorized"
	CodeInternal         Code = "internal_error"
)

var statusByCode = map[Code]int{
	CodeBadRequest:       http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeMethodNotAllowed: http.StatusMethodNotAllowed,
	CodeUnauthenticated:  http.StatusUnauthorized,
	CodeUnauthorized:     http.StatusForbidden,
	CodeInternal:         http.StatusInternalServerError,
}

// Status returns the HTTP status fixed for the code. Unknown codes map to 500.
func (c Code) Status() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is an immutable classified failure. Reason is an optional
// machine-readable identifier that refines Code on the wire
// (e.g. "invalid-parameter" for a bad request).
type Error struct {
	code    Code
	reason  string
	message string
	err     error
}

// New creates a classified error with a human-readable message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap classifies an underlying error, keeping it reachable via errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{code: code, message: message, err: err}
}

// BadRequest reports malformed or out-of-range input. reason is the
// identifier returned to the caller in place of the generic code.
func BadRequest(reason, message string) *Error {
	return &Error{code: CodeBadRequest, reason: reason, message: message}
}

func NotFound(message string) *Error {
	return &Error{code: CodeNotFound, message: message}
}

func MethodNotAllowed() *Error {
	return &Error{code: CodeMethodNotAllowed}
}

func Unauthenticated() *Error {
	return &Error{code: CodeUnauthenticated}
}

func Unauthorized() *Error {
	return &Error{code: CodeUnauthorized}
}

// Internal reports an operational fault. The message is for logs only; the
// dispatcher never sends it to the client.
func Internal(message string, err error) *Error {
	return &Error{code: CodeInternal, message: message, err: err}
}

func (e *Error) Error() string {
	msg := string(e.code)
	if e.reason != "" {
		msg += " (" + e.reason + ")"
	}
	if e.message != "" {
		msg += ": " + e.message
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Code() Code { return e.code }

func (e *Error) Message() string { return e.message }

func (e *Error) Status() int { return e.code.Status() }

// Identifier is the machine-readable string sent as the "error" field.
func (e *Error) Identifier() string {
	if e.reason != "" {
		return e.reason
	}
	return string(e.code)
}

// As extracts the outermost classified error from a chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err is classified with code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.code == code
}

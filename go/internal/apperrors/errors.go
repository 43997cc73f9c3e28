// Package apperrors defines the error taxonomy shared by the stores and
// coordinators. Every mutating operation returns one of these kinds
// synchronously; broadcast delivery failures are never surfaced through it.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and the HTTP layer.
type Kind int

const (
	// Validation covers malformed input: bad order, empty text,
	// out-of-range timer extension.
	Validation Kind = iota + 1
	// NotFound covers unknown session/question/response ids.
	NotFound
	// PreconditionFailed covers requests that are well-formed but not
	// currently applicable, e.g. submitting to an inactive question.
	PreconditionFailed
	// Conflict covers concurrent mutations that raced and lost; safe to
	// retry.
	Conflict
	// Unavailable covers persistence or transport timeouts; safe to retry.
	Unavailable
	// Unauthenticated covers missing or invalid credentials.
	Unauthenticated
	// Unauthorized covers callers lacking the role for an operation.
	Unauthorized
)

// Error carries a kind alongside a message and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is lets errors.Is match on kind when the target is an *Error with a
// matching kind and empty message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// HTTPStatus maps an error to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case PreconditionFailed:
		return http.StatusPreconditionFailed
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

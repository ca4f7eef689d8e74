// Package apperr defines the typed errors returned by Orderhub's domain
// logic. Every rejected operation maps to exactly one Kind, which transport
// layers translate into an HTTP status (or an MCP tool error) without
// inspecting message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable error classification.
type Kind string

const (
	// KindUnauthenticated means the bearer credential was present but invalid.
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	// KindPermissionDenied means the caller has no standing for the operation
	// or for the owner it resolved to.
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	// KindNotFound means no active record matched, or referenced products do
	// not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidArgument means the request shape or mandatory fields are bad.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindInternal is an unexpected failure; the only kind logged as an error.
	KindInternal Kind = "INTERNAL"
)

// HTTPStatus maps a Kind to its HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed domain error with optional context for the response
// envelope (e.g. the product ids that failed to resolve).
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by Kind, so callers can test outcomes with errors.Is
// against a bare kind sentinel.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithContext returns a copy of e carrying the given context map.
func (e *Error) WithContext(ctx map[string]any) *Error {
	clone := *e
	clone.Context = ctx
	return &clone
}

// Wrap creates an internal Error around an unexpected failure.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: err}
}

// KindOf returns the Kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Package apperr defines the error taxonomy shared across the service.
// Every failure that crosses a package boundary carries a Kind, which the
// API layer maps to a transport status, and a caller-safe message. The
// wrapped cause is for logs only and is never echoed to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidArgument    Kind = "invalid-argument"
	KindNotFound           Kind = "not-found"
	KindFailedPrecondition Kind = "failed-precondition"
	KindRender             Kind = "render"
	KindIO                 Kind = "io"
	KindPublish            Kind = "publish"
	KindInternal           Kind = "internal"
)

// Error is a kinded error with a message safe to surface to callers.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// E builds an *Error. cause may be nil.
func E(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the Kind from err, defaulting to KindInternal for
// errors that never got classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message extracts the caller-safe message from err. Unclassified errors
// get a generic message so internals never leak through a response body.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}

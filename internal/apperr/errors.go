// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Handlers map each kind to a status code via StatusCode.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP surfacing.
type Kind int

const (
	// KindValidation: malformed or missing input the client must fix.
	KindValidation Kind = iota + 1
	// KindConflict: a unique field is already taken.
	KindConflict
	// KindNotFound: the referenced entity does not exist.
	KindNotFound
	// KindAuth: credential or session mismatch.
	KindAuth
	// KindForbidden: authenticated but not authorized for the resource.
	KindForbidden
	// KindUpstream: the AI provider failed; its message is passed through.
	KindUpstream
)

// Error carries a kind, a client-facing message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that keeps the cause reachable via errors.Unwrap.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Upstream wraps a provider failure, attaching the provider's message.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("%s. Error: %v", message, err), Err: err}
}

// StatusCode maps an error to its HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to show to clients. Unclassified
// errors collapse to a generic message so internals do not leak.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

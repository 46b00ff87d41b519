// Package apperr is the single error contract shared by every service.
// Failures carry a Kind for control flow and a provider-style Code (e.g.
// "auth/invalid-credential") that clients can pattern-match.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidArgument    Kind = "invalid_argument"
	KindUnauthenticated    Kind = "unauthenticated"
	KindPermissionDenied   Kind = "permission_denied"
	KindNotFound           Kind = "not_found"
	KindAlreadyExists      Kind = "already_exists"
	KindFailedPrecondition Kind = "failed_precondition"
	KindProvider           Kind = "provider"
)

// Error is a classified failure
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches the underlying cause, which is kept out of Message.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Provider classifies an unexpected store or storage failure
func Provider(code string, err error) *Error {
	return Wrap(KindProvider, code, "The service is temporarily unavailable", err)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// As returns the *Error in err's chain, if any
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err; unclassified errors are provider errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindProvider
}

// CodeOf returns the Code of err, or "internal" for unclassified errors.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return "internal"
}

func IsNotFound(err error) bool         { return err != nil && KindOf(err) == KindNotFound }
func IsPermissionDenied(err error) bool { return err != nil && KindOf(err) == KindPermissionDenied }
func IsUnauthenticated(err error) bool  { return err != nil && KindOf(err) == KindUnauthenticated }

// HTTPStatus maps a Kind to the status code used by the HTTP layer
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindFailedPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusBadGateway
	}
}

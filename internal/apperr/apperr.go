// Package apperr defines the failure kinds surfaced to API callers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindNotFound           Kind = "NotFound"
	KindUnauthorized       Kind = "Unauthorized"
	KindMissingToken       Kind = "MissingToken"
	KindInvalidToken       Kind = "InvalidToken"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindPendingApproval    Kind = "PendingApproval"
	KindForbidden          Kind = "Forbidden"
	KindRateLimited        Kind = "RateLimited"
	KindUpstream           Kind = "UpstreamStorageError"
)

// Error is a classified failure. Message is safe to return to clients;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Forbidden(msg string) *Error { return New(KindForbidden, msg) }

func Upstream(err error) *Error { return Wrap(KindUpstream, "storage failure", err) }

// KindOf classifies err. Unclassified errors count as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// Message returns the client-facing message for err. Upstream causes are
// never exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUpstream {
		return e.Message
	}
	return "internal error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized, KindMissingToken, KindInvalidToken, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindPendingApproval, KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

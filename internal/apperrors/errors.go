// Package apperrors defines the error kinds surfaced by actions and the
// normalizer that maps any failure onto one of them.
//
// Domain code returns typed errors:
//
//	if question == nil {
//	    return apperrors.NotFound("Question")
//	}
//
// and callers branch on the kind with errors.Is:
//
//	if errors.Is(err, apperrors.ErrUnauthorized) { ... }
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of failure.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindRateLimited  Kind = "RATE_LIMITED"
	KindInternal     Kind = "INTERNAL"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// UnexpectedMessage is the only message an unknown failure ever exposes.
const UnexpectedMessage = "An unexpected error occurred"

// Error is a failure of a known kind with a caller-safe message and optional
// field-level details.
type Error struct {
	Kind    Kind
	Message string
	Details map[string][]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Status returns the HTTP status code for this error.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// WithCause returns a copy of e wrapping err. The cause is logged, never sent
// to the caller.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "Validation Error"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "Not Found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "Forbidden"}
	ErrRateLimited  = &Error{Kind: KindRateLimited, Message: "Too many requests"}
	ErrInternal     = &Error{Kind: KindInternal, Message: UnexpectedMessage}
)

// Validation creates a validation error carrying per-field messages.
func Validation(details map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: validationMessage(details), Details: details}
}

// NotFound creates a not found error for the named resource, e.g.
// NotFound("Question") reads "Question not found".
func NotFound(resource string) *Error {
	if resource == "" {
		return &Error{Kind: KindNotFound, Message: "Not Found"}
	}
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "Unauthorized"
	}
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "Forbidden"
	}
	return &Error{Kind: KindForbidden, Message: msg}
}

// RateLimited creates a rate limited error.
func RateLimited(msg string) *Error {
	if msg == "" {
		msg = "Too many requests"
	}
	return &Error{Kind: KindRateLimited, Message: msg}
}

// Internal creates an internal error with a caller-safe message.
func Internal(msg string, cause error) *Error {
	if msg == "" {
		msg = UnexpectedMessage
	}
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

func validationMessage(details map[string][]string) string {
	if len(details) == 0 {
		return "Validation Error"
	}
	// Stable output: the message lists the fields in sorted order.
	fields := sortedKeys(details)
	msg := "Validation Error: "
	for i, field := range fields {
		if i > 0 {
			msg += ", "
		}
		msg += field
	}
	return msg
}

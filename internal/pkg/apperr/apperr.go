// Package apperr defines the error kinds surfaced by services and the single
// place where a kind becomes an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a classified application error. Message is safe to show to
// clients; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Option customises an Error built by New.
type Option func(*Error)

// WithMessage sets the client-facing message.
func WithMessage(msg string) Option {
	return func(e *Error) { e.Message = msg }
}

// WithCause attaches the underlying error.
func WithCause(err error) Option {
	return func(e *Error) { e.Err = err }
}

// New builds an Error of the given kind.
func New(kind Kind, opts ...Option) *Error {
	e := &Error{Kind: kind, Message: defaultMessage(kind)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Validation(msg string) *Error {
	return New(KindValidation, WithMessage(msg))
}

// NotFound reports a missing entity, e.g. NotFound("Article").
func NotFound(entity string) *Error {
	return New(KindNotFound, WithMessage(entity+" not found"))
}

func Unauthorized(msg string) *Error {
	return New(KindUnauthorized, WithMessage(msg))
}

func Conflict(msg string) *Error {
	return New(KindConflict, WithMessage(msg))
}

// Upstream wraps a failure of an external collaborator (LLM, Unsplash, feeds).
func Upstream(msg string, err error) *Error {
	return New(KindUpstream, WithMessage(msg), WithCause(err))
}

func Internal(err error) *Error {
	return New(KindInternal, WithCause(err))
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the message a client may see for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindInternal:
			return defaultMessage(KindInternal)
		default:
			if e.Message != "" {
				return e.Message
			}
			return defaultMessage(e.Kind)
		}
	}
	return defaultMessage(KindInternal)
}

// HTTPStatus maps every kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(kind Kind) string {
	switch kind {
	case KindValidation:
		return "Invalid request"
	case KindNotFound:
		return "Not found"
	case KindUnauthorized:
		return "Not authenticated"
	case KindConflict:
		return "Already exists"
	case KindUpstream:
		return "Upstream service failed"
	default:
		return "Internal server error"
	}
}

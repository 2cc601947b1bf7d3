package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")
)

// Kind classifies errors into the closed set of failure categories.
//
// Values outside the declared constants behave like KindInternal.
type Kind int

const (
	KindInternal     Kind = iota // Unclassified or unexpected failure.
	KindValidation               // Input failed a precondition.
	KindUnauthorized             // Missing or invalid credentials.
	KindForbidden                // Authenticated but not permitted.
	KindNotFound                 // Referenced entity absent.
	KindConflict                 // Uniqueness or state conflict.
)

// Kinds lists every kind of the taxonomy.
func Kinds() []Kind {
	return []Kind{KindValidation, KindUnauthorized, KindForbidden, KindNotFound, KindConflict, KindInternal}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ERROR_KIND_VALIDATION"
	case KindUnauthorized:
		return "ERROR_KIND_UNAUTHORIZED"
	case KindForbidden:
		return "ERROR_KIND_FORBIDDEN"
	case KindNotFound:
		return "ERROR_KIND_NOT_FOUND"
	case KindConflict:
		return "ERROR_KIND_CONFLICT"
	default:
		return "ERROR_KIND_INTERNAL"
	}
}

// StatusCode maps the kind to its fixed HTTP status code.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DefaultMessage is used whenever an Error is built without a message.
func (k Kind) DefaultMessage() string {
	switch k {
	case KindValidation:
		return "Validation error"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "Resource not found"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}

func (k Kind) valid() bool {
	return k >= KindInternal && k <= KindConflict
}

// Error is the structured, immutable error used across the application.
//
// The cause is kept for errors.Is/As and local logging. It is never part of
// Error() so it cannot leak into a response by accident.
type Error struct {
	kind  Kind
	msg   string
	field string
	cause error
}

// Error implements the error interface and returns the user-facing message.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.msg
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Kind: %s, Message: %s, Field: %s, Underlying Error: %v",
		e.kind.String(),
		e.msg,
		e.field,
		e.cause,
	)
}

// Kind returns the error kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Msg returns the user-facing message. It is never empty.
func (e *Error) Msg() string {
	return e.msg
}

// Field returns the offending input name, if any.
func (e *Error) Field() string {
	return e.field
}

// Cause returns the original failure, if any.
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// StatusCode maps the error kind to an HTTP status code.
func (e *Error) StatusCode() int {
	return e.kind.StatusCode()
}

// WithMessage returns a copy of e with a different message.
func (e *Error) WithMessage(msg string) *Error {
	return build(e.kind, msg, e.field, e.cause)
}

// WithField returns a copy of e naming the offending field.
func (e *Error) WithField(field string) *Error {
	return build(e.kind, e.msg, field, e.cause)
}

// Option customizes an Error under construction.
type Option func(*Error)

// WithField sets the offending input name.
func WithField(field string) Option {
	return func(e *Error) { e.field = field }
}

// WithCause attaches the original failure.
func WithCause(err error) Option {
	return func(e *Error) { e.cause = err }
}

func build(kind Kind, msg, field string, cause error) *Error {
	if !kind.valid() {
		kind = KindInternal
	}
	if msg == "" {
		msg = kind.DefaultMessage()
	}
	return &Error{kind: kind, msg: msg, field: field, cause: cause}
}

// New creates an Error of the given kind.
func New(kind Kind, msg string, opts ...Option) *Error {
	e := build(kind, msg, "", nil)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewValidation creates a validation error, optionally naming the offending field.
func NewValidation(msg, field string) *Error {
	return build(KindValidation, msg, field, nil)
}

// NewUnauthorized creates an unauthorized error.
func NewUnauthorized(msg string) *Error {
	return build(KindUnauthorized, msg, "", nil)
}

// NewForbidden creates a forbidden error.
func NewForbidden(msg string) *Error {
	return build(KindForbidden, msg, "", nil)
}

// NewNotFound creates a not-found error for the named resource.
func NewNotFound(resource string) *Error {
	if resource == "" {
		resource = "Resource"
	}
	return build(KindNotFound, resource+" not found", "", nil)
}

// NewConflict creates a conflict error with a human-readable message.
func NewConflict(msg string) *Error {
	return build(KindConflict, msg, "", nil)
}

// NewInternal creates an internal error that retains err as its cause.
// The message is always generic.
func NewInternal(err error) *Error {
	return build(KindInternal, "", "", err)
}

// Wrap builds a new Error on top of err.
//
// When err already is an *Error its cause is carried over, so re-wrapping
// never drops the original failure.
func Wrap(err error, kind Kind, msg string) *Error {
	cause := err
	if perr, ok := As(err); ok {
		cause = perr.cause
		if cause == nil {
			cause = perr
		}
	}
	return build(kind, msg, "", cause)
}

// As reports whether err is, or wraps, an *Error.
func As(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

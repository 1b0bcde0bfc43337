package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a usecase matches exactly one of these via errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrUpstream            = errors.New("upstream failure")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrForbidden           = errors.New("forbidden")
)

// Error carries the kind, the failing operation and a user-facing message.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(op, format string, args ...any) error {
	return newError(ErrValidation, op, format, args...)
}

func NotFoundError(op, format string, args ...any) error {
	return newError(ErrNotFound, op, format, args...)
}

func TransitionError(op, format string, args ...any) error {
	return newError(ErrInvalidTransition, op, format, args...)
}

func ForbiddenError(op, format string, args ...any) error {
	return newError(ErrForbidden, op, format, args...)
}

func UnsupportedCurrencyError(op, code string) error {
	return newError(ErrUnsupportedCurrency, op, "currency %q is not supported", code)
}

// UpstreamError wraps a storage, network or file-store failure.
func UpstreamError(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Message: "upstream call failed", Err: err}
}

// KindOf returns the taxonomy kind of err, or nil when err is not classified.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrInvalidTransition, ErrUpstream, ErrUnsupportedCurrency, ErrForbidden} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

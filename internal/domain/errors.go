package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure kinds surfaced to callers.
type ErrorKind string

const (
	KindNetwork         ErrorKind = "NETWORK_ERROR"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindInvalidResponse ErrorKind = "INVALID_RESPONSE"
	KindValidation      ErrorKind = "VALIDATION_ERROR"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
	ErrValidation      = &Error{Kind: KindValidation}
)

// Error is a normalized upstream or lookup failure. Err holds the original
// cause for diagnostics only.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // upstream HTTP status, 0 when no response was received
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can test against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NotFound builds a KindNotFound error with the given message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

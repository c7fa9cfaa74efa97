package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide how to surface it.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindPersistence
	KindEncoding
	KindSignature
	KindExpired
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	case KindEncoding:
		return "encoding"
	case KindSignature:
		return "signature"
	case KindExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Error is the single error shape the services return. Details and Hint
// carry whatever diagnostics the remote store attached; Format flattens
// them into the one message the caller presents.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Hint != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Hint)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a rejected store write. The store's own message is
// flattened into Details so nothing gets lost on the way up.
func Persistence(msg string, err error) *Error {
	e := &Error{Kind: KindPersistence, Message: msg, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

func Encoding(format string, args ...interface{}) *Error {
	return &Error{Kind: KindEncoding, Message: fmt.Sprintf(format, args...)}
}

func Signature(format string, args ...interface{}) *Error {
	return &Error{Kind: KindSignature, Message: fmt.Sprintf(format, args...)}
}

func Expired(format string, args ...interface{}) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Format renders any error as the single human-readable string handed to
// the client. Unknown error types fall back to their plain message.
func Format(err error) string {
	if err == nil {
		return "unknown error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// HTTPStatus maps an error kind onto the status code the HTTP surface
// responds with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindEncoding:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindSignature:
		return http.StatusUnauthorized
	case KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrInvalidFrame        = fmt.Errorf("invalid frame payload")
	ErrUnknownEvent        = fmt.Errorf("unknown event")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrLastMessageConflict = fmt.Errorf("last message pointer changed concurrently")
	ErrCircuitOpen         = fmt.Errorf("object storage circuit is open")
	ErrRecordNotFound      = fmt.Errorf("record not found")
	ErrSinkFull            = fmt.Errorf("connection buffer full")
	ErrSinkClosed          = fmt.Errorf("connection closed")
)

// Kind classifies an error for the transport boundary.
type Kind string

const (
	KindUnauthorized    Kind = "unauthorized"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindValidation      Kind = "validation"
	KindUpstreamFailure Kind = "upstream_failure"
	KindInternal        Kind = "internal"
)

// Error is the structured error returned by command handlers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Upstream(message string, err error) error {
	return &Error{Kind: KindUpstreamFailure, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the human readable message carried by err.
// Unclassified errors never leak their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on the error code so sentinel comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. Conflict-family errors are recoverable by picking a
// different slot or time; token errors are terminal for that token.
var (
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden  = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	ErrSlotOverlap      = New("SLOT_OVERLAP", http.StatusConflict, "interviewer already available at this date and time")
	ErrSlotUnavailable  = New("SLOT_UNAVAILABLE", http.StatusConflict, "slot is already booked")
	ErrAlreadyScheduled = New("ALREADY_SCHEDULED", http.StatusConflict, "the candidate has already been assigned to an interviewer")
	ErrBufferConflict   = New("BUFFER_CONFLICT", http.StatusConflict, "there must be a 1-hour gap between two consecutive scheduled interviews")
	ErrSuperseded       = New("SUPERSEDED", http.StatusConflict, "this interview schedule has expired or was cancelled")

	ErrTokenExpired   = New("TOKEN_EXPIRED", http.StatusGone, "confirmation request expired")
	ErrTokenMalformed = New("TOKEN_MALFORMED", http.StatusBadRequest, "invalid confirmation token")

	ErrPricingNotConfigured = New("PRICING_NOT_CONFIGURED", http.StatusInternalServerError, "pricing information not configured for given experience")
	ErrExternalService      = New("EXTERNAL_SERVICE", http.StatusBadGateway, "external service failure")

	ErrCacheMiss = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

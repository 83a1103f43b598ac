// Package errors holds the error taxonomy shared by source adapters and the
// resolver. Every adapter failure wraps ErrUnavailable so the resolver can
// fall through to the next source without inspecting concrete types.
package errors

import (
	stdErrors "errors"
	"fmt"
)

var (
	// ErrUnavailable marks a source that failed to answer: network error,
	// non-success status or a payload that failed validation.
	ErrUnavailable = stdErrors.New("source unavailable")

	// ErrUnsupported is returned by a source asked about a collection it does not serve.
	ErrUnsupported = stdErrors.New("collection not served by source")
)

// UnavailableError records which source failed and, when known, the HTTP status.
type UnavailableError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	msg := e.Source + ": unavailable"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnavailable) match without losing the cause chain.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// NewUnavailableError creates an UnavailableError. status may be 0 for transport failures.
func NewUnavailableError(source string, status int, err error) *UnavailableError {
	return &UnavailableError{Source: source, StatusCode: status, Err: err}
}

// IsUnavailable reports whether err means a source could not answer.
func IsUnavailable(err error) bool {
	return stdErrors.Is(err, ErrUnavailable)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var u *UnavailableError
	return stdErrors.As(err, &u) && u.StatusCode == 404
}

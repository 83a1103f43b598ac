package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// AuthError is an upstream rejecting our credentials. It degrades to
// "unavailable" like any other failure, but callers log it distinctly because
// it silently pushes every request onto lower-priority sources.
type AuthError struct {
	Source     string
	Message    string
	StatusCode int
	APIMessage string
}

func (e *AuthError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.APIMessage != "" {
		b.WriteString(": ")
		b.WriteString(e.APIMessage)
	}
	return b.String()
}

func (e *AuthError) Is(target error) bool { return target == ErrUnavailable }

// NewAuthError classifies an authentication failure by status code.
// A zero status means no key was configured at all.
func NewAuthError(source string, statusCode int, apiMessage string) *AuthError {
	var message string
	switch statusCode {
	case 0:
		message = "API key not configured"
	case 401:
		message = "invalid API key"
	case 403:
		if strings.Contains(strings.ToLower(apiMessage), "limit") {
			message = "API key quota exhausted"
		} else {
			message = "access forbidden, check API key"
		}
	default:
		message = "authentication failed"
	}

	return &AuthError{
		Source:     source,
		Message:    message,
		StatusCode: statusCode,
		APIMessage: apiMessage,
	}
}

// IsAuthError checks if err is an AuthError (even when wrapped).
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stdErrors.As(err, &authErr)
}

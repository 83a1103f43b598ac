package errors

import (
	stdErrors "errors"
	"fmt"
	"time"
)

// RateLimitError represents an upstream telling us to slow down (HTTP 429).
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

func (e *RateLimitError) Is(target error) bool { return target == ErrUnavailable }

// NewRateLimitError creates a new RateLimitError with the given message
func NewRateLimitError(message string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Message: message, RetryAfter: retryAfter}
}

// IsRateLimitError checks if err is a RateLimitError (even when wrapped).
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return stdErrors.As(err, &rlErr)
}

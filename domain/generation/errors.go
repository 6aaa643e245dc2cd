package generation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrRateLimited marks a generation failure caused by rate limiting or an
// exhausted quota upstream.
var ErrRateLimited = errors.New("generation rate limited")

// OverloadedMessage is shown to users instead of raw rate-limit errors.
const OverloadedMessage = "The system is temporarily overloaded. Please try again in a few moments."

// IsRateLimit reports whether an HTTP failure is a rate-limit condition:
// a 429, or a 500 whose message mentions a quota or rate limit.
func IsRateLimit(status int, message string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status != http.StatusInternalServerError {
		return false
	}
	msg := strings.ToLower(message)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

// UserError is a generation failure carrying a message fit for display.
type UserError struct {
	message string
	cause   error
}

// NewUserError wraps cause with a user-facing message. Rate-limit causes
// get the generic overloaded message regardless of the given one.
func NewUserError(message string, cause error) *UserError {
	if errors.Is(cause, ErrRateLimited) {
		message = OverloadedMessage
	}
	return &UserError{message: message, cause: cause}
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.cause)
}

// Message returns the user-facing message.
func (e *UserError) Message() string { return e.message }

// Unwrap returns the underlying cause.
func (e *UserError) Unwrap() error { return e.cause }

package stream

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation client and session.
var (
	// ErrCancelled indicates the user aborted the streaming session.
	ErrCancelled = errors.New("generation cancelled")

	// ErrTokenExpired indicates the verification token was rejected. The
	// request can be retried once a fresh token is obtained.
	ErrTokenExpired = errors.New("verification token expired")

	// ErrServiceError indicates a server-side generation failure.
	ErrServiceError = errors.New("generation service error")

	// ErrNoEndpoint indicates no service URL is configured.
	ErrNoEndpoint = errors.New("no generation service URL configured")

	// ErrNotStreaming indicates an operation that requires an active
	// streaming session.
	ErrNotStreaming = errors.New("session is not streaming")
)

// APIError represents an HTTP-level error from the generation service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generation service error (status %d): %s", e.StatusCode, e.Message)
}

// TokenExpiredError preserves the original request so it can be retried
// without the user re-entering input once a fresh token is obtained.
type TokenExpiredError struct {
	Request Request
}

func (e *TokenExpiredError) Error() string {
	return "verification token expired; retry with a fresh token"
}

func (e *TokenExpiredError) Unwrap() error { return ErrTokenExpired }

// IsTokenExpired returns true if the error indicates a rejected
// verification token.
func IsTokenExpired(err error) bool {
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsCancelled returns true if the error indicates user cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

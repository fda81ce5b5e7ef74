package reddit

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError indicates an authentication failure: a rejected token request or
// a 401/403 on an API call. Auth errors are never retried; the UI surfaces a
// re-login prompt instead.
type AuthError struct {
	// StatusCode is the HTTP status code, if the error came from a response
	StatusCode int
	// Body contains the raw response body, which may hold more details
	Body string
	// Err is the underlying error, e.g. a network or JSON parsing error
	Err error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError indicates a transport-level problem executing an API request.
// These are transient and eligible for a single bounded retry.
type RequestError struct {
	// Operation is the name of the API operation that failed
	Operation string
	// URL is the URL that was being accessed
	URL string
	// Err contains the underlying error
	Err error
}

func (e *RequestError) Error() string {
	if e.Operation != "" && e.URL != "" {
		return fmt.Sprintf("request error during %s to %s: %v", e.Operation, e.URL, e.Err)
	}
	if e.Operation != "" {
		return fmt.Sprintf("request error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError indicates a malformed API response. Not retryable; the listing
// that produced it is left untouched.
type ParseError struct {
	// Operation is the name of the API operation where parsing failed
	Operation string
	// Err contains the underlying error
	Err error
}

func (e *ParseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// APIError represents a non-2xx response that is neither an auth failure nor
// a transport problem.
type APIError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Message is a short description of the failed request
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether err is transient. Only transport-level request
// errors qualify; auth, parse, and API errors never do.
func IsRetryable(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

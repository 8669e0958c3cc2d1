package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s", e.StatusCode, e.Message)
}

// StatusOf extracts the HTTP status code and message from go-github
// error types. Registered with the invoker so retry classification
// works on GitHub SDK errors without the retry layer importing them.
func StatusOf(err error) (int, string, bool) {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return http.StatusTooManyRequests, rateLimitErr.Message, true
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return http.StatusTooManyRequests, abuseErr.Message, true
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode, ghErr.Message, true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message, true
	}

	return 0, "", false
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	status, _, ok := StatusOf(err)
	return ok && status == http.StatusNotFound
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	status, _, ok := StatusOf(err)
	return ok && status == http.StatusTooManyRequests
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	status, _, ok := StatusOf(err)
	return ok && status == http.StatusUnauthorized
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	status, _, ok := StatusOf(err)
	return ok && status == http.StatusForbidden
}

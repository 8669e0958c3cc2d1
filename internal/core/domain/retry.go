package domain

import (
	"net/http"
	"time"
)

// Default retry policy values. These are conservative: Google's API
// guides recommend exponential backoff starting around one second.
const (
	// DefaultMaxAttempts is the total number of attempts, including the first.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the delay before the first retry.
	DefaultBaseDelay = time.Second

	// DefaultAttemptTimeout bounds each individual network call.
	DefaultAttemptTimeout = 30 * time.Second
)

// RetryPolicy configures retry behaviour for API calls.
// It is an immutable configuration value; copies are cheap and safe.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts (>= 1).
	MaxAttempts int
	// BaseDelay is the backoff unit: attempt n waits BaseDelay * 2^(n-1).
	BaseDelay time.Duration
	// AttemptTimeout bounds each individual attempt. Zero means no
	// per-attempt timeout beyond the caller's context.
	AttemptTimeout time.Duration
	// RetryableStatusCodes are the HTTP status codes worth retrying.
	RetryableStatusCodes []int
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, 1s base
// delay, retrying on 429 and the transient 5xx family.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		BaseDelay:      DefaultBaseDelay,
		AttemptTimeout: DefaultAttemptTimeout,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// IsRetryableStatus returns true if the policy retries the given HTTP status.
func (p RetryPolicy) IsRetryableStatus(code int) bool {
	for _, c := range p.RetryableStatusCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Backoff returns the delay before the given retry. Attempts are
// counted from 1; the delay after attempt n is BaseDelay * 2^(n-1).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// Validate checks the policy is usable.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidInput
	}
	if p.BaseDelay < 0 {
		return ErrInvalidInput
	}
	return nil
}

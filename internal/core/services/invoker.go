package services

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// Operation is a single attempt at one network call. The context passed
// in carries the per-attempt timeout.
type Operation func(ctx context.Context) error

// StatusFunc extracts an HTTP status code (and response body, if
// available) from a provider-specific error. Connectors register their
// own so the invoker never imports vendor SDK error types.
type StatusFunc func(err error) (status int, body string, ok bool)

// Invoker executes operations with transient-failure retry and
// exponential backoff. It classifies each failure as retryable
// (429/5xx/transport timeouts), permanent (other 4xx), or a stale
// credential (401, handled by one re-validation callback).
type Invoker struct {
	policy      domain.RetryPolicy
	statusFuncs []StatusFunc
	reauth      func(ctx context.Context) error

	// sleep is injectable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
	// jitter perturbs a backoff delay to avoid thundering-herd retries.
	jitter func(d time.Duration) time.Duration
}

// NewInvoker creates an invoker with the given retry policy.
func NewInvoker(policy domain.RetryPolicy) *Invoker {
	return &Invoker{
		policy:      policy,
		statusFuncs: []StatusFunc{domainStatus},
		sleep:       sleepContext,
		jitter:      fullJitter,
	}
}

// WithStatusFunc registers an additional provider-specific status
// extractor. Returns the invoker for chaining.
func (iv *Invoker) WithStatusFunc(fn StatusFunc) *Invoker {
	iv.statusFuncs = append(iv.statusFuncs, fn)
	return iv
}

// WithReauth sets the callback invoked once when an attempt fails with
// 401. A stale token looks identical to a genuine permission error at
// the HTTP layer, so the credential is re-validated exactly once before
// further 401s become permanent.
func (iv *Invoker) WithReauth(fn func(ctx context.Context) error) *Invoker {
	iv.reauth = fn
	return iv
}

// Policy returns the invoker's retry policy.
func (iv *Invoker) Policy() domain.RetryPolicy {
	return iv.policy
}

// Do executes op, retrying transient failures with exponential backoff
// up to the policy's attempt budget. Failure mapping:
//
//   - retryable status / transport timeout: backoff then retry
//   - 401: one reauth callback, then a retry that does not count
//     against the budget; further 401s are permanent
//   - other 4xx: *domain.PermanentError, no retry
//   - budget exhausted: *domain.RetriesExhaustedError with the last cause
//   - caller deadline passed: *domain.DeadlineExceededError
func (iv *Invoker) Do(ctx context.Context, op Operation) error {
	if err := iv.policy.Validate(); err != nil {
		return err
	}

	start := time.Now()
	attempt := 0
	reauthed := false
	var lastErr error

	for attempt < iv.policy.MaxAttempts {
		// Check the caller's deadline before starting a new attempt.
		if err := ctx.Err(); err != nil {
			return iv.deadlineError(ctx, attempt, start)
		}

		attempt++
		err := iv.attempt(ctx, op)
		if err == nil {
			return nil
		}

		status, body, hasStatus := iv.statusOf(err)

		if hasStatus && status == http.StatusUnauthorized && iv.reauth != nil && !reauthed {
			reauthed = true
			lastErr = err
			logger.Debug("attempt %d got 401, re-validating credential", attempt)
			if rerr := iv.reauth(ctx); rerr != nil {
				return rerr
			}
			// The 401 attempt does not consume budget, so the retry
			// with fresh credentials always gets its chance.
			attempt--
			continue
		}

		if !iv.retryable(err, status, hasStatus) {
			if hasStatus {
				return &domain.PermanentError{StatusCode: status, Body: body, Err: err}
			}
			return err
		}

		lastErr = err
		if attempt >= iv.policy.MaxAttempts {
			break
		}

		delay := iv.jitter(iv.policy.Backoff(attempt))
		logger.Debug("attempt %d failed (%v), retrying in %s", attempt, err, delay)
		if serr := iv.sleep(ctx, delay); serr != nil {
			return iv.deadlineError(ctx, attempt, start)
		}
	}

	return &domain.RetriesExhaustedError{
		Attempts: attempt,
		Elapsed:  time.Since(start),
		Err:      lastErr,
	}
}

// Invoke runs a result-returning operation through the invoker.
func Invoke[T any](ctx context.Context, iv *Invoker, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := iv.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// attempt runs one call under the per-attempt timeout.
func (iv *Invoker) attempt(ctx context.Context, op Operation) error {
	if iv.policy.AttemptTimeout <= 0 {
		return op(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, iv.policy.AttemptTimeout)
	defer cancel()
	return op(attemptCtx)
}

// statusOf runs the registered extractors in order.
func (iv *Invoker) statusOf(err error) (int, string, bool) {
	for _, fn := range iv.statusFuncs {
		if status, body, ok := fn(err); ok {
			return status, body, true
		}
	}
	return 0, "", false
}

// retryable classifies a failed attempt.
func (iv *Invoker) retryable(err error, status int, hasStatus bool) bool {
	if hasStatus {
		return iv.policy.IsRetryableStatus(status)
	}

	// A per-attempt timeout is a transient transport failure. The
	// caller's own deadline is checked separately before each attempt.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	return false
}

// deadlineError maps a spent caller context to the right terminal error.
func (iv *Invoker) deadlineError(ctx context.Context, attempts int, start time.Time) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.DeadlineExceededError{Attempts: attempts, Elapsed: time.Since(start)}
	}
	return ctx.Err()
}

// domainStatus extracts the status from domain.APIError, the shape
// returned by this module's own HTTP adapters.
func domainStatus(err error) (int, string, bool) {
	var ae *domain.APIError
	if errors.As(err, &ae) {
		return ae.StatusCode, ae.Body, true
	}
	return 0, "", false
}

// sleepContext sleeps for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fullJitter perturbs the delay by up to +/-25%.
func fullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := int64(d) / 2 // +/-25%
	return d - time.Duration(spread/2) + time.Duration(rand.Int63n(spread+1))
}

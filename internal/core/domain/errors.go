package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrAuthRequired indicates no stored credential exists and the
	// interactive flow has not been run.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a raw upstream HTTP failure before retry classification.
// Adapters that talk HTTP directly return this; the invoker decides
// whether the status is retryable or final.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// StorageError indicates the local credential or config file could not
// be read or written. It is surfaced immediately and never retried:
// retrying a local filesystem write only masks real failures.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AuthorizationError indicates the provider rejected a grant
// (invalid_grant, access_denied). It is fatal for the current
// credential; the caller must re-run the interactive flow.
type AuthorizationError struct {
	// Code is the OAuth2 error code from the provider, e.g. "invalid_grant".
	Code        string
	Description string
	Err         error
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s (%s)", e.Code, e.Description)
	}
	return fmt.Sprintf("authorization failed: %s", e.Code)
}

func (e *AuthorizationError) Unwrap() error { return e.Err }

// Invalid returns true if the error means the grant itself is dead
// and re-using it can never succeed.
func (e *AuthorizationError) Invalid() bool {
	return e.Code == "invalid_grant" || e.Code == "access_denied"
}

// PermanentError indicates a non-retryable HTTP failure from the
// upstream API. The original status and body are kept for diagnosis.
type PermanentError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent API error: status %d", e.StatusCode)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// RetriesExhaustedError indicates retryable failures persisted past the
// policy's attempt budget. The last underlying error is the cause.
type RetriesExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts in %s: %v",
		e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

// DeadlineExceededError indicates the caller-supplied deadline passed
// while attempts or backoff waits were still pending. It is reported
// distinctly from RetriesExhaustedError so callers can tell "we gave
// up" from "you ran out of time".
type DeadlineExceededError struct {
	Attempts int
	Elapsed  time.Duration
}

func (e *DeadlineExceededError) Error() string {
	return fmt.Sprintf("deadline exceeded after %d attempts in %s",
		e.Attempts, e.Elapsed.Round(time.Millisecond))
}

// IsStorage returns true if the error is a local storage failure.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsAuthorization returns true if the error is a rejected OAuth grant.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsPermanent returns true if the error is a non-retryable API failure.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// IsRetriesExhausted returns true if the retry budget was spent.
func IsRetriesExhausted(err error) bool {
	var re *RetriesExhaustedError
	return errors.As(err, &re)
}

// IsDeadlineExceeded returns true if the caller deadline cut the
// operation short.
func IsDeadlineExceeded(err error) bool {
	var de *DeadlineExceededError
	return errors.As(err, &de)
}

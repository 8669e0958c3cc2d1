// Package services implements the driving port interfaces.
// Services contain the core business logic: the token refresh
// lifecycle, retrying invocation with backoff, and capped pagination.
//
// Services are pure Go with no external dependencies; provider-specific
// error shapes enter through injected status classifiers.
package services

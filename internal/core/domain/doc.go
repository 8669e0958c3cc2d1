// Package domain defines the core business entities for Bastion.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: Stored OAuth tokens for one account
//   - RetryPolicy: Retry/backoff configuration for API calls
//   - The error taxonomy (StorageError, AuthorizationError, ...)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

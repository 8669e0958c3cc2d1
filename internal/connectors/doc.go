// Package connectors contains provider-specific API clients.
//
// Each connector wraps a provider SDK with the shared authenticated-call
// machinery: tokens from the TokenProvider, retry with backoff through
// the invoker, provider rate limiting, and budget-capped pagination.
//
// Connectors:
//   - google: shared Google infrastructure plus gmail, drive, calendar
//     and youtube clients
//   - github: GitHub REST client over go-github
package connectors

package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently.
type TokenProvider interface {
	// GetToken returns a valid access token, refreshing it first if the
	// stored one is expired.
	GetToken(ctx context.Context) (string, error)

	// Invalidate discards any cached token so the next GetToken call
	// re-reads storage. Called after a 401 from the upstream API, and
	// when the token file changes on disk.
	Invalidate()
}

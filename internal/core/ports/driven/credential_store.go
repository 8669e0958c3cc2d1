package driven

import (
	"context"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// CredentialStore persists OAuth credentials at rest.
// Implementations own only serialization and file handling; token
// validity and refresh are the TokenRefresher's concern.
type CredentialStore interface {
	// Load reads and deserializes the credential at path.
	// Returns (nil, nil) if the file does not exist: absence is not an
	// error, it simply means the interactive flow has never been run.
	// Returns a *domain.StorageError if the file exists but is
	// unreadable or malformed.
	Load(ctx context.Context, path string) (*domain.Credential, error)

	// Save serializes and writes the credential atomically
	// (write-to-temp-then-rename) so a crash mid-write never corrupts
	// the previous valid token. Parent directories are created as
	// needed. Returns a *domain.StorageError on I/O failure; storage
	// failures are reported, never retried.
	Save(ctx context.Context, path string, cred *domain.Credential) error

	// Delete removes the credential file. Missing files are not an error.
	Delete(ctx context.Context, path string) error
}

// CredentialWatcher is an optional extension of CredentialStore for
// long-lived processes: it signals when the token file is rewritten by
// another process so cached tokens can be invalidated.
type CredentialWatcher interface {
	// Watch returns a channel that receives the path whenever the
	// credential file at path changes on disk. Close stop to end the
	// watch. Implementations must not block on the returned channel.
	Watch(path string, stop <-chan struct{}) (<-chan string, error)
}

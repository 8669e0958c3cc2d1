package driving

import (
	"context"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// AuthService manages the credential lifecycle for the configured account.
type AuthService interface {
	// Login runs the interactive authorization flow and persists the
	// resulting credential, replacing any existing one.
	Login(ctx context.Context) (*domain.Credential, error)

	// Status returns the stored credential, or nil if none exists.
	// It performs no network calls.
	Status(ctx context.Context) (*domain.Credential, error)

	// Logout deletes the stored credential.
	Logout(ctx context.Context) error
}

package services

import (
	"context"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driving"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages the credential lifecycle for the configured account.
type AuthService struct {
	refresher *TokenRefresher
	store     driven.CredentialStore
	tokenPath string
}

// NewAuthService creates a new auth service bound to one token file.
func NewAuthService(refresher *TokenRefresher, store driven.CredentialStore, tokenPath string) *AuthService {
	return &AuthService{
		refresher: refresher,
		store:     store,
		tokenPath: tokenPath,
	}
}

// Login runs the interactive authorization flow and persists the
// resulting credential, replacing any existing one.
func (s *AuthService) Login(ctx context.Context) (*domain.Credential, error) {
	if s.refresher == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.refresher.Authorize(ctx, s.tokenPath)
}

// Status returns the stored credential, or nil if none exists.
func (s *AuthService) Status(ctx context.Context) (*domain.Credential, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Load(ctx, s.tokenPath)
}

// Logout deletes the stored credential.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Delete(ctx, s.tokenPath)
}

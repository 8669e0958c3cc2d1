package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// TokenRefresher owns the credential lifecycle: it decides whether a
// stored credential is still usable, performs the silent refresh-token
// exchange when possible, and falls back to the interactive flow when
// it is not.
//
// All operations for one credential identity (keyed by token-file path)
// are serialized: some providers invalidate a refresh token after first
// use, so two callers must never race independent refresh exchanges.
// Store reads and writes go through the same lock.
type TokenRefresher struct {
	store   driven.CredentialStore
	exch    driven.OAuthExchanger
	flow    driven.CodeFlow
	invoker *Invoker

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTokenRefresher creates a token refresher. The invoker is used to
// retry transient network failures during the refresh exchange; grant
// rejections are never retried.
func NewTokenRefresher(
	store driven.CredentialStore,
	exch driven.OAuthExchanger,
	flow driven.CodeFlow,
	invoker *Invoker,
) *TokenRefresher {
	return &TokenRefresher{
		store:   store,
		exch:    exch,
		flow:    flow,
		invoker: invoker,
		locks:   make(map[string]*sync.Mutex),
	}
}

// EnsureValid returns a usable credential for the token file at path.
//
//   - still valid: returned unchanged, no network call
//   - expired with a refresh token: one refresh exchange, persisted
//     before return
//   - expired or absent without a refresh token: interactive flow
//   - refresh rejected with an invalid_grant-class error: the refresh
//     token is dead, fall back to the interactive flow
func (r *TokenRefresher) EnsureValid(ctx context.Context, path string) (*domain.Credential, error) {
	lock := r.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	cred, err := r.store.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	if cred != nil && !cred.IsExpired() {
		return cred, nil
	}

	if cred != nil && cred.HasRefreshToken() {
		refreshed, err := r.refresh(ctx, cred)
		if err == nil {
			if err := r.store.Save(ctx, path, refreshed); err != nil {
				return nil, err
			}
			return refreshed, nil
		}

		var ae *domain.AuthorizationError
		if !errors.As(err, &ae) || !ae.Invalid() {
			return nil, fmt.Errorf("refresh token exchange: %w", err)
		}
		// The refresh token is dead; discard it and re-authorize.
		logger.Warn("refresh token rejected (%s), falling back to interactive authorization", ae.Code)
	}

	return r.authorize(ctx, path)
}

// Authorize runs the interactive flow unconditionally and persists the
// resulting credential, replacing any stored one.
func (r *TokenRefresher) Authorize(ctx context.Context, path string) (*domain.Credential, error) {
	lock := r.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	return r.authorize(ctx, path)
}

// authorize must be called with the identity lock held.
func (r *TokenRefresher) authorize(ctx context.Context, path string) (*domain.Credential, error) {
	if r.flow == nil {
		return nil, domain.ErrAuthRequired
	}

	grant, err := r.flow.Obtain(ctx, r.exch)
	if err != nil {
		return nil, fmt.Errorf("obtain authorization code: %w", err)
	}

	cred, err := r.exch.ExchangeCode(ctx, *grant)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := r.store.Save(ctx, path, cred); err != nil {
		return nil, err
	}

	logger.Info("credential stored at %s", path)
	return cred, nil
}

// refresh performs the refresh-token exchange with transient-failure
// retry. The new credential keeps the old refresh token if the provider
// did not rotate it.
func (r *TokenRefresher) refresh(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	refreshed, err := Invoke(ctx, r.invoker, func(ctx context.Context) (*domain.Credential, error) {
		return r.exch.Refresh(ctx, cred.RefreshToken)
	})
	if err != nil {
		return nil, err
	}

	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cred.RefreshToken
	}
	if len(refreshed.Scopes) == 0 {
		refreshed.Scopes = cred.Scopes
	}
	return refreshed, nil
}

// lockFor returns the mutex serializing operations on one token file.
func (r *TokenRefresher) lockFor(path string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[path] = lock
	}
	return lock
}

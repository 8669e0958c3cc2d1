package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// Ensure CachedTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*CachedTokenProvider)(nil)

// cacheBuffer is how long before expiry a cached token stops being
// served, so in-flight requests never carry a token about to die.
const cacheBuffer = 5 * time.Minute

// CachedTokenProvider provides access tokens with automatic refresh.
// It caches the access token in memory between calls; the refresher
// behind it owns validity checks and persistence.
type CachedTokenProvider struct {
	refresher *TokenRefresher
	path      string

	mu          sync.RWMutex
	cachedToken string
	cacheExpiry time.Time
}

// NewCachedTokenProvider creates a token provider for the token file at path.
func NewCachedTokenProvider(refresher *TokenRefresher, path string) *CachedTokenProvider {
	return &CachedTokenProvider{
		refresher: refresher,
		path:      path,
	}
}

// GetToken returns a valid access token, refreshing if necessary.
func (p *CachedTokenProvider) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	// Slow path: need refresh, acquire write lock
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	cred, err := p.refresher.EnsureValid(ctx, p.path)
	if err != nil {
		return "", err
	}

	p.cachedToken = cred.AccessToken
	if !cred.Expiry.IsZero() {
		p.cacheExpiry = cred.Expiry.Add(-cacheBuffer)
	} else {
		p.cacheExpiry = time.Now().Add(time.Hour)
	}

	return p.cachedToken, nil
}

// Invalidate discards the cached token so the next GetToken re-reads
// storage. Called after a 401, and when the token file changes on disk.
func (p *CachedTokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cachedToken = ""
	p.cacheExpiry = time.Time{}
}

// WatchFile invalidates the cache whenever another process rewrites the
// token file, so a long-running command picks up externally refreshed
// tokens instead of racing its own refresh. Returns after the watch is
// established; the goroutine exits when stop is closed.
func (p *CachedTokenProvider) WatchFile(w driven.CredentialWatcher, stop <-chan struct{}) error {
	events, err := w.Watch(p.path, stop)
	if err != nil {
		return err
	}

	go func() {
		for range events {
			logger.Debug("token file changed on disk, invalidating cached token")
			p.Invalidate()
		}
	}()
	return nil
}

// Reauth returns a callback suitable for Invoker.WithReauth: it drops
// the cached token and forces one EnsureValid pass.
func (p *CachedTokenProvider) Reauth() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p.Invalidate()
		_, err := p.refresher.EnsureValid(ctx, p.path)
		return err
	}
}

// Credential returns the stored credential without refreshing it.
func (p *CachedTokenProvider) Credential(ctx context.Context) (*domain.Credential, error) {
	return p.refresher.store.Load(ctx, p.path)
}

// StaticTokenProvider serves a fixed token, such as a personal access
// token from the environment. It cannot refresh; Invalidate is a no-op.
type StaticTokenProvider struct {
	token string
}

var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// NewStaticTokenProvider creates a provider that always returns token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// GetToken returns the fixed token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// Invalidate does nothing; a static token has nothing to refresh.
func (p *StaticTokenProvider) Invalidate() {}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// TestCachedTokenProvider_GetToken_CachesBetweenCalls tests that a
// second GetToken call is served from the in-memory cache
func TestCachedTokenProvider_GetToken_CachesBetweenCalls(t *testing.T) {
	refresher, store, exch, _ := newRefresherFixture()
	provider := NewCachedTokenProvider(refresher, tokenPath)

	expired := &domain.Credential{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), tokenPath, expired))

	first, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access", first)

	second, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, exch.refreshCalls, "cached token must not trigger another refresh")
}

// TestCachedTokenProvider_Invalidate tests that invalidation forces a
// re-read of storage on the next call
func TestCachedTokenProvider_Invalidate(t *testing.T) {
	refresher, store, _, _ := newRefresherFixture()
	provider := NewCachedTokenProvider(refresher, tokenPath)

	valid := &domain.Credential{
		AccessToken: "first-token",
		Expiry:      time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), tokenPath, valid))

	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first-token", token)

	// Another process rewrites the token file.
	rotated := &domain.Credential{
		AccessToken: "second-token",
		Expiry:      time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), tokenPath, rotated))

	provider.Invalidate()

	token, err = provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second-token", token)
}

// TestCachedTokenProvider_Reauth tests the 401 callback path
func TestCachedTokenProvider_Reauth(t *testing.T) {
	refresher, store, exch, _ := newRefresherFixture()
	provider := NewCachedTokenProvider(refresher, tokenPath)

	expired := &domain.Credential{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), tokenPath, expired))

	err := provider.Reauth()(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, exch.refreshCalls)

	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access", token)
}

// TestStaticTokenProvider tests the fixed-token path used for personal
// access tokens.
func TestStaticTokenProvider(t *testing.T) {
	provider := NewStaticTokenProvider("ghp_fixed")

	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghp_fixed", token)

	provider.Invalidate()
	token, err = provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghp_fixed", token)

	_, err = NewStaticTokenProvider("").GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

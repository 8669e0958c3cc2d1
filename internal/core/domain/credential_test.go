package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCredential_IsExpired_ZeroExpiry tests that zero expiry means never expires
func TestCredential_IsExpired_ZeroExpiry(t *testing.T) {
	cred := &Credential{
		AccessToken: "test-token",
		Expiry:      time.Time{}, // Zero value
	}

	assert.False(t, cred.IsExpired(), "Credential with zero expiry should not be expired")
}

// TestCredential_IsExpired_FutureExpiry tests a token comfortably before expiry
func TestCredential_IsExpired_FutureExpiry(t *testing.T) {
	cred := &Credential{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(time.Hour),
	}

	assert.False(t, cred.IsExpired(), "Credential with future expiry should not be expired")
}

// TestCredential_IsExpired_PastExpiry tests an expired token
func TestCredential_IsExpired_PastExpiry(t *testing.T) {
	cred := &Credential{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(-time.Hour),
	}

	assert.True(t, cred.IsExpired(), "Credential with past expiry should be expired")
}

// TestCredential_IsExpired_WithinSkew tests that a token inside the skew
// margin counts as expired even though the wall clock has not passed it yet
func TestCredential_IsExpired_WithinSkew(t *testing.T) {
	cred := &Credential{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(ExpirySkew / 2),
	}

	assert.True(t, cred.IsExpired(), "Credential inside the skew margin should be expired")
}

// TestCredential_IsExpired_JustOutsideSkew tests a token just beyond the margin
func TestCredential_IsExpired_JustOutsideSkew(t *testing.T) {
	cred := &Credential{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(ExpirySkew + 5*time.Second),
	}

	assert.False(t, cred.IsExpired(), "Credential outside the skew margin should not be expired")
}

// TestCredential_HasRefreshToken tests refresh token presence checks
func TestCredential_HasRefreshToken(t *testing.T) {
	withRefresh := &Credential{AccessToken: "a", RefreshToken: "r"}
	withoutRefresh := &Credential{AccessToken: "a"}

	assert.True(t, withRefresh.HasRefreshToken())
	assert.False(t, withoutRefresh.HasRefreshToken())
}

// TestCredential_NeedsReauth tests the re-authorization condition:
// expired with no refresh token
func TestCredential_NeedsReauth(t *testing.T) {
	expiredNoRefresh := &Credential{
		AccessToken: "a",
		Expiry:      time.Now().Add(-time.Hour),
	}
	expiredWithRefresh := &Credential{
		AccessToken:  "a",
		RefreshToken: "r",
		Expiry:       time.Now().Add(-time.Hour),
	}
	valid := &Credential{
		AccessToken: "a",
		Expiry:      time.Now().Add(time.Hour),
	}

	assert.True(t, expiredNoRefresh.NeedsReauth())
	assert.False(t, expiredWithRefresh.NeedsReauth(), "Refreshable credential should not need reauth")
	assert.False(t, valid.NeedsReauth())
}

// TestCredential_HasScopes tests scope subset checking
func TestCredential_HasScopes(t *testing.T) {
	cred := &Credential{
		AccessToken: "a",
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/drive.readonly",
		},
	}

	assert.True(t, cred.HasScopes(nil))
	assert.True(t, cred.HasScopes([]string{"https://www.googleapis.com/auth/gmail.readonly"}))
	assert.False(t, cred.HasScopes([]string{"https://www.googleapis.com/auth/calendar.readonly"}))
}

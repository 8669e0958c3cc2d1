package domain

import "time"

// ExpirySkew is subtracted from the access token expiry before comparing
// against the wall clock, so we never race the server's own expiry check.
const ExpirySkew = 60 * time.Second

// Credential stores OAuth tokens for a single authenticated account.
// It is the on-disk token file shape and the in-memory value passed
// through the token lifecycle; every successful refresh mutates
// AccessToken and Expiry and the result is persisted before use.
type Credential struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	// If absent the credential cannot be silently renewed.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires. Zero means unknown,
	// which is treated as not expired.
	Expiry time.Time `json:"expiry,omitempty"`
	// Scopes are the OAuth scopes this credential was granted.
	Scopes []string `json:"scopes,omitempty"`
}

// IsExpired returns true if the access token has expired or is within
// ExpirySkew of expiring.
func (c *Credential) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !time.Now().Before(c.Expiry.Add(-ExpirySkew))
}

// HasRefreshToken returns true if a refresh token is available.
func (c *Credential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// NeedsReauth returns true if the credential can no longer be renewed
// without user interaction: the token is expired and no refresh token
// exists.
func (c *Credential) NeedsReauth() bool {
	return c.IsExpired() && !c.HasRefreshToken()
}

// HasScopes returns true if the credential was granted every scope in want.
func (c *Credential) HasScopes(want []string) bool {
	granted := make(map[string]bool, len(c.Scopes))
	for _, s := range c.Scopes {
		granted[s] = true
	}
	for _, s := range want {
		if !granted[s] {
			return false
		}
	}
	return true
}

package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
)

// newTestExchanger points an exchanger at a fake token endpoint.
func newTestExchanger(tokenURL string) *Exchanger {
	return NewExchanger(&oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes:       []string{"scope-a", "scope-b"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: tokenURL,
		},
	})
}

// TestExchanger_ExchangeCode_Success tests the authorization-code grant
func TestExchanger_ExchangeCode_Success(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":    r.Form.Get("grant_type"),
			"code":          r.Form.Get("code"),
			"redirect_uri":  r.Form.Get("redirect_uri"),
			"code_verifier": r.Form.Get("code_verifier"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "new-access",
			"refresh_token": "new-refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"scope":         "scope-a scope-b",
		})
	}))
	defer server.Close()

	exch := newTestExchanger(server.URL)
	cred, err := exch.ExchangeCode(context.Background(), driven.AuthCodeGrant{
		Code:         "auth-code",
		RedirectURI:  "http://localhost:9004/callback",
		CodeVerifier: "verifier",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-access", cred.AccessToken)
	assert.Equal(t, "new-refresh", cred.RefreshToken)
	assert.Equal(t, "Bearer", cred.TokenType)
	assert.False(t, cred.Expiry.IsZero())
	assert.Equal(t, []string{"scope-a", "scope-b"}, cred.Scopes)

	assert.Equal(t, "authorization_code", gotForm["grant_type"])
	assert.Equal(t, "auth-code", gotForm["code"])
	assert.Equal(t, "http://localhost:9004/callback", gotForm["redirect_uri"])
	assert.Equal(t, "verifier", gotForm["code_verifier"])
}

// TestExchanger_Refresh_Success tests the refresh-token grant
func TestExchanger_Refresh_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		// Google omits the refresh token on refresh responses
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	exch := newTestExchanger(server.URL)
	cred, err := exch.Refresh(context.Background(), "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, "fresh-access", cred.AccessToken)
	assert.Empty(t, cred.RefreshToken)
	assert.Equal(t, []string{"scope-a", "scope-b"}, cred.Scopes, "scopes default to the client config")
}

// TestExchanger_Refresh_InvalidGrant tests that a dead refresh token is
// an AuthorizationError, not a retryable failure
func TestExchanger_Refresh_InvalidGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Token has been expired or revoked.",
		})
	}))
	defer server.Close()

	exch := newTestExchanger(server.URL)
	cred, err := exch.Refresh(context.Background(), "revoked-refresh")

	assert.Nil(t, cred)
	require.Error(t, err)

	var ae *domain.AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalid_grant", ae.Code)
	assert.True(t, ae.Invalid())
}

// TestExchanger_Refresh_ServerErrorIsAPIError tests that a 503 from the
// token endpoint surfaces the status for retry classification
func TestExchanger_Refresh_ServerErrorIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	exch := newTestExchanger(server.URL)
	_, err := exch.Refresh(context.Background(), "refresh")

	require.Error(t, err)

	var ae *domain.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusServiceUnavailable, ae.StatusCode)
}

// TestExchanger_AuthCodeURL tests offline access, PKCE and state params
func TestExchanger_AuthCodeURL(t *testing.T) {
	exch := newTestExchanger("https://oauth2.example.com/token")

	authURL := exch.AuthCodeURL("http://localhost:9004/callback", "state-123", "challenge-abc")

	assert.Contains(t, authURL, "access_type=offline")
	assert.Contains(t, authURL, "prompt=consent")
	assert.Contains(t, authURL, "state=state-123")
	assert.Contains(t, authURL, "code_challenge=challenge-abc")
	assert.Contains(t, authURL, "code_challenge_method=S256")
	assert.Contains(t, authURL, "redirect_uri=http%3A%2F%2Flocalhost%3A9004%2Fcallback")
}

// TestLoadClientSecret tests parsing an installed-app client secret file
func TestLoadClientSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secret.json")
	secret := `{
		"installed": {
			"client_id": "id-123.apps.googleusercontent.com",
			"client_secret": "secret-xyz",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"redirect_uris": ["http://localhost"]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(secret), 0600))

	cfg, err := LoadClientSecret(path, []string{"scope-a"})

	require.NoError(t, err)
	assert.Equal(t, "id-123.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, "secret-xyz", cfg.ClientSecret)
	assert.Equal(t, []string{"scope-a"}, cfg.Scopes)
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.Endpoint.TokenURL)
}

// TestLoadClientSecret_MissingFile tests the storage error path
func TestLoadClientSecret_MissingFile(t *testing.T) {
	_, err := LoadClientSecret(filepath.Join(t.TempDir(), "nope.json"), nil)

	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

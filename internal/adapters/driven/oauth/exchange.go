// Package oauth implements the OAuth2 grants against a provider's
// token endpoint: authorization-code exchange and refresh-token
// exchange.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
)

// Ensure Exchanger implements the interface.
var _ driven.OAuthExchanger = (*Exchanger)(nil)

// requestTimeout bounds a single token-endpoint call.
const requestTimeout = 30 * time.Second

// Exchanger performs OAuth2 grants using the client configuration from
// a vendor client-secret file.
type Exchanger struct {
	cfg    *oauth2.Config
	client *http.Client
}

// NewExchanger creates an exchanger from an oauth2 client configuration.
func NewExchanger(cfg *oauth2.Config) *Exchanger {
	return &Exchanger{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// AuthCodeURL constructs the authorization URL. access_type=offline and
// prompt=consent ask Google for a refresh token on every authorization,
// not just the first one for this client.
func (e *Exchanger) AuthCodeURL(redirectURI, state, codeChallenge string) string {
	cfg := *e.cfg
	cfg.RedirectURL = redirectURI

	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if codeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	return cfg.AuthCodeURL(state, opts...)
}

// ExchangeCode exchanges an authorization code for a credential.
func (e *Exchanger) ExchangeCode(ctx context.Context, grant driven.AuthCodeGrant) (*domain.Credential, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", e.cfg.ClientID)
	data.Set("client_secret", e.cfg.ClientSecret)
	data.Set("code", grant.Code)
	data.Set("redirect_uri", grant.RedirectURI)
	if grant.CodeVerifier != "" {
		data.Set("code_verifier", grant.CodeVerifier)
	}

	return e.doGrant(ctx, data)
}

// Refresh exchanges a refresh token for a new access token.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (*domain.Credential, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", e.cfg.ClientID)
	data.Set("client_secret", e.cfg.ClientSecret)

	return e.doGrant(ctx, data)
}

// tokenResponse is the provider's token endpoint response body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// doGrant posts the grant request and maps the response:
//
//   - 200: a new credential
//   - OAuth error body (invalid_grant, access_denied, ...):
//     *domain.AuthorizationError, never retried against the same grant
//   - other non-2xx: *domain.APIError so the caller's retry policy can
//     classify the status
func (e *Exchanger) doGrant(ctx context.Context, data url.Values) (*domain.Credential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if jerr := json.Unmarshal(body, &errResp); jerr == nil && errResp.Error != "" {
			return nil, &domain.AuthorizationError{Code: errResp.Error, Description: errResp.Description}
		}
		return nil, &domain.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, &domain.AuthorizationError{Code: "invalid_response", Description: "no access token in response"}
	}

	cred := &domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if cred.TokenType == "" {
		cred.TokenType = "Bearer"
	}
	if tok.ExpiresIn > 0 {
		cred.Expiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	if tok.Scope != "" {
		cred.Scopes = strings.Fields(tok.Scope)
	} else {
		cred.Scopes = e.cfg.Scopes
	}

	return cred, nil
}

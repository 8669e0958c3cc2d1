package driven

import (
	"context"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// AuthCodeGrant is the outcome of an interactive authorization: the
// code pasted or received on the loopback redirect, plus the redirect
// URI and PKCE verifier needed to exchange it.
type AuthCodeGrant struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// OAuthExchanger performs the OAuth2 grants against the provider's
// token endpoint. Implementations encapsulate provider quirks
// (e.g. Google's access_type=offline).
type OAuthExchanger interface {
	// AuthCodeURL constructs the authorization URL with the given
	// redirect URI, CSRF state and PKCE code challenge.
	AuthCodeURL(redirectURI, state, codeChallenge string) string

	// ExchangeCode exchanges an authorization code for a credential.
	// A rejected grant is returned as *domain.AuthorizationError.
	ExchangeCode(ctx context.Context, grant AuthCodeGrant) (*domain.Credential, error)

	// Refresh exchanges a refresh token for a new access token without
	// user interaction. An invalid_grant-class rejection is returned as
	// *domain.AuthorizationError; transport failures are returned as-is
	// so the caller can retry them.
	Refresh(ctx context.Context, refreshToken string) (*domain.Credential, error)
}

// CodeFlow obtains an authorization code from the user. The two
// implementations are the loopback callback server and the manual
// paste prompt; which one runs is configuration, not code.
type CodeFlow interface {
	// Obtain presents the authorization URL built via exch.AuthCodeURL
	// and blocks until the user completes consent or ctx expires.
	Obtain(ctx context.Context, exch OAuthExchanger) (*AuthCodeGrant, error)
}

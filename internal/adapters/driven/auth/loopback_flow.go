package auth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	driveroauth "github.com/custodia-labs/bastion-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// Ensure LoopbackFlow implements the interface.
var _ driven.CodeFlow = (*LoopbackFlow)(nil)

// defaultConsentTimeout is how long we wait for the user to complete
// consent in the browser.
const defaultConsentTimeout = 5 * time.Minute

// LoopbackFlow obtains an authorization code via a local HTTP callback
// server: it opens the consent URL in the user's browser and waits for
// the provider to redirect back to localhost.
type LoopbackFlow struct {
	// Port for the callback server; 0 picks a free port.
	Port int
	// Timeout bounds the wait for consent; zero uses the default.
	Timeout time.Duration

	// out receives user-facing prompts; openBrowser launches the
	// consent URL. Both are injectable for tests.
	out         io.Writer
	openBrowser func(url string) error
}

// NewLoopbackFlow creates a loopback-server code flow.
func NewLoopbackFlow(port int) *LoopbackFlow {
	return &LoopbackFlow{
		Port:        port,
		out:         os.Stderr,
		openBrowser: driveroauth.OpenBrowser,
	}
}

// Obtain starts the callback server, presents the consent URL and
// blocks until the redirect arrives or the wait times out.
func (f *LoopbackFlow) Obtain(ctx context.Context, exch driven.OAuthExchanger) (*driven.AuthCodeGrant, error) {
	state := uuid.NewString()
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}

	server := driveroauth.NewCallbackServer(f.Port, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer server.Stop()

	redirectURI := server.RedirectURI()
	authURL := exch.AuthCodeURL(redirectURI, state, generateCodeChallenge(verifier))

	fmt.Fprintf(f.out, "Opening your browser for authorization.\nIf it does not open, visit:\n\n  %s\n\n", authURL)
	if err := f.openBrowser(authURL); err != nil {
		logger.Warn("could not open browser: %v", err)
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = defaultConsentTimeout
	}

	code, err := server.WaitForCode(ctx, timeout)
	if err != nil {
		return nil, err
	}

	return &driven.AuthCodeGrant{
		Code:         code,
		RedirectURI:  redirectURI,
		CodeVerifier: verifier,
	}, nil
}

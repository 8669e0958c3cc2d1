package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
)

// Ensure ManualFlow implements the interface.
var _ driven.CodeFlow = (*ManualFlow)(nil)

// oobRedirectURI is the out-of-band redirect for clients without a
// reachable loopback address (SSH sessions, containers).
const oobRedirectURI = "urn:ietf:wg:oauth:2.0:oob"

// ManualFlow obtains an authorization code by printing the consent URL
// and reading the code the user pastes back. It is the fallback for
// environments where a browser cannot reach a local callback server.
type ManualFlow struct {
	in  io.Reader
	out io.Writer
	// isTerminal reports whether in is an interactive terminal;
	// injectable for tests.
	isTerminal func() bool
}

// NewManualFlow creates a paste-the-code flow reading from stdin.
func NewManualFlow() *ManualFlow {
	return &ManualFlow{
		in:  os.Stdin,
		out: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Obtain prints the consent URL and blocks reading the pasted code.
func (f *ManualFlow) Obtain(ctx context.Context, exch driven.OAuthExchanger) (*driven.AuthCodeGrant, error) {
	state := uuid.NewString()
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}

	authURL := exch.AuthCodeURL(oobRedirectURI, state, generateCodeChallenge(verifier))

	fmt.Fprintf(f.out, "Visit this URL to authorize:\n\n  %s\n\n", authURL)
	if f.isTerminal() {
		fmt.Fprint(f.out, "Enter authorization code: ")
	}

	// Read in a goroutine so a cancelled context does not leave the
	// caller blocked on stdin.
	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		scanner := bufio.NewScanner(f.in)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				ch <- result{err: fmt.Errorf("read authorization code: %w", err)}
				return
			}
			ch <- result{err: fmt.Errorf("no authorization code entered")}
			return
		}
		ch <- result{code: strings.TrimSpace(scanner.Text())}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		if res.code == "" {
			return nil, fmt.Errorf("no authorization code entered")
		}
		return &driven.AuthCodeGrant{
			Code:         res.code,
			RedirectURI:  oobRedirectURI,
			CodeVerifier: verifier,
		}, nil
	}
}

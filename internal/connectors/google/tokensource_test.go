package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	token string
	err   error
}

func (p *staticProvider) GetToken(_ context.Context) (string, error) {
	return p.token, p.err
}

func (p *staticProvider) Invalidate() {}

// TestTokenSourceAdapter_Token tests that the adapter surfaces the
// provider's access token as a bearer oauth2.Token.
func TestTokenSourceAdapter_Token(t *testing.T) {
	ts := NewTokenSource(context.Background(), &staticProvider{token: "ya29.abc"})

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "ya29.abc", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}

// TestTokenSourceAdapter_ProviderError tests that provider failures
// propagate.
func TestTokenSourceAdapter_ProviderError(t *testing.T) {
	want := errors.New("refresh failed")
	ts := NewTokenSource(context.Background(), &staticProvider{err: want})

	_, err := ts.Token()
	assert.ErrorIs(t, err, want)
}

package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// TestPageTokens_RoundTrip tests page number to token conversion.
func TestPageTokens_RoundTrip(t *testing.T) {
	assert.Equal(t, "", tokenForPage(0))
	assert.Equal(t, "3", tokenForPage(3))

	page, err := pageForToken("")
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = pageForToken("7")
	require.NoError(t, err)
	assert.Equal(t, 7, page)
}

// TestPageForToken_Invalid tests rejection of malformed tokens.
func TestPageForToken_Invalid(t *testing.T) {
	for _, token := range []string{"abc", "-1", "0"} {
		_, err := pageForToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "token %q", token)
	}
}

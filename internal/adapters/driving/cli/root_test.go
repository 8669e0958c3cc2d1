package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitScopes(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "b"},
		splitScopes("a, b"))
	assert.Equal(t,
		[]string{"only"},
		splitScopes("only,"))
	assert.Empty(t, splitScopes(""))
}

// TestRootCmd_NoClientSecret tests that commands needing tokens fail
// with a pointer to configuration rather than a panic.
func TestRootCmd_NoClientSecret(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"gmail", "list", "--config-dir", t.TempDir()})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no OAuth app configured")
}

// TestRootCmd_AuthStatusWithoutConfig tests that auth status degrades
// cleanly with no OAuth app configured.
func TestRootCmd_AuthStatusWithoutConfig(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"auth", "status", "--config-dir", t.TempDir()})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth service not configured")
}

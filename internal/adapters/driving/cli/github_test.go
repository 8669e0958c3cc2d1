package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/custodia-labs/bastion-cli/internal/adapters/driven/config/file"
)

// TestGithubToken_EnvWins tests that GITHUB_TOKEN beats any config value.
func TestGithubToken_EnvWins(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")

	store, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_from_config"))
	prev := cfg
	cfg = store
	defer func() { cfg = prev }()

	token, err := githubToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_from_env", token)
}

// TestGithubToken_FromConfig tests the github.token config fallback.
func TestGithubToken_FromConfig(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	store, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_from_config"))
	prev := cfg
	cfg = store
	defer func() { cfg = prev }()

	token, err := githubToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_from_config", token)
}

// TestGithubToken_MissingEverywhere tests the error when neither the
// environment nor the config carries a token.
func TestGithubToken_MissingEverywhere(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	prev := cfg
	cfg = nil
	defer func() { cfg = prev }()

	_, err := githubToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

// TestGithubRepos_NoToken tests that the repos command surfaces the
// missing-token error instead of calling the API.
func TestGithubRepos_NoToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"github", "repos", "--config-dir", t.TempDir()})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no GitHub token")
}

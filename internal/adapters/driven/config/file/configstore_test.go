package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// TestConfigStore_SetGet tests that values round-trip through Set and the
// typed getters.
func TestConfigStore_SetGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("auth.client_secret", "/tmp/cs.json"))
	require.NoError(t, store.Set("retry.max_attempts", 5))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "/tmp/cs.json", store.GetString("auth.client_secret"))
	assert.Equal(t, 5, store.GetInt("retry.max_attempts"))
	assert.True(t, store.GetBool("verbose"))
}

// TestConfigStore_MissingKeys tests zero-value fallbacks for keys that were
// never set.
func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))
}

// TestConfigStore_PersistsAcrossInstances tests that a second store created
// over the same directory sees previously saved values.
func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("auth.scopes", []string{"a", "b"}))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, second.GetStringSlice("auth.scopes"))
}

// TestConfigStore_NestedTablesFlattened tests that TOML tables are exposed
// through dot-notation keys.
func TestConfigStore_NestedTablesFlattened(t *testing.T) {
	dir := t.TempDir()
	content := "[retry]\nmax_attempts = 7\nbase_delay_ms = 250\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 7, store.GetInt("retry.max_attempts"))
	assert.Equal(t, 250, store.GetInt("retry.base_delay_ms"))
}

// TestConfigStore_FilePermissions tests that the config file is written with
// owner-only permissions.
func TestConfigStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// TestRetryPolicy_FromConfig tests that retry.* keys override the defaults
// and unset keys fall back.
func TestRetryPolicy_FromConfig(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("retry.max_attempts", 6))
	require.NoError(t, store.Set("retry.base_delay_ms", 500))

	policy := RetryPolicy(store)

	assert.Equal(t, 6, policy.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, policy.BaseDelay)
	assert.Equal(t, domain.DefaultRetryPolicy().AttemptTimeout, policy.AttemptTimeout)
}

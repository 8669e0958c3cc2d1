package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

func testCredential() *domain.Credential {
	return &domain.Credential{
		AccessToken:  "access-token-123",
		RefreshToken: "refresh-token-456",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly"},
	}
}

// TestCredentialStore_RoundTrip tests that save followed by load
// returns a credential equal in all fields
func TestCredentialStore_RoundTrip(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "token.json")
	want := testCredential()

	require.NoError(t, store.Save(context.Background(), path, want))

	got, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.Equal(t, want.TokenType, got.TokenType)
	assert.True(t, want.Expiry.Equal(got.Expiry))
	assert.Equal(t, want.Scopes, got.Scopes)
}

// TestCredentialStore_Load_MissingFile tests that absence is (nil, nil),
// not an error
func TestCredentialStore_Load_MissingFile(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	cred, err := store.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Nil(t, cred)
}

// TestCredentialStore_Load_MalformedFile tests that a corrupt token
// file is a StorageError
func TestCredentialStore_Load_MalformedFile(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cred, err := store.Load(context.Background(), path)

	assert.Nil(t, cred)
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

// TestCredentialStore_Save_CreatesParentDirectories tests nested path creation
func TestCredentialStore_Save_CreatesParentDirectories(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "token.json")

	require.NoError(t, store.Save(context.Background(), path, testCredential()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

// TestCredentialStore_Save_OwnerOnlyPermissions tests that the token
// file is never world-readable
func TestCredentialStore_Save_OwnerOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions not applicable on Windows")
	}

	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "token.json")

	require.NoError(t, store.Save(context.Background(), path, testCredential()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// TestCredentialStore_Save_OverwritesAtomically tests that saving over
// an existing file replaces it completely and leaves no temp files
func TestCredentialStore_Save_OverwritesAtomically(t *testing.T) {
	store := NewCredentialStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")

	first := testCredential()
	require.NoError(t, store.Save(context.Background(), path, first))

	second := testCredential()
	second.AccessToken = "rotated-access"
	require.NoError(t, store.Save(context.Background(), path, second))

	got, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "rotated-access", got.AccessToken)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should remain after save")
}

// TestCredentialStore_Save_NilCredential tests rejection of nil input
func TestCredentialStore_Save_NilCredential(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "token.json")

	err := store.Save(context.Background(), path, nil)

	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

// TestCredentialStore_Delete tests removal and missing-file tolerance
func TestCredentialStore_Delete(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "token.json")

	require.NoError(t, store.Save(context.Background(), path, testCredential()))
	require.NoError(t, store.Delete(context.Background(), path))

	cred, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Nil(t, cred)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(context.Background(), path))
}

// TestCredentialStore_Watch_SignalsOnRewrite tests that an atomic save
// by another writer is observed
func TestCredentialStore_Watch_SignalsOnRewrite(t *testing.T) {
	store := NewCredentialStore()
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, store.Save(context.Background(), path, testCredential()))

	stop := make(chan struct{})
	defer close(stop)

	changes, err := store.Watch(path, stop)
	require.NoError(t, err)

	rotated := testCredential()
	rotated.AccessToken = "rotated"
	require.NoError(t, store.Save(context.Background(), path, rotated))

	select {
	case changed := <-changes:
		assert.Equal(t, path, changed)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

// Package file provides file-based persistence for OAuth credentials.
// The token file is a bearer credential, so it is written with owner-only
// permissions and replaced atomically.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// Ensure CredentialStore implements the interfaces.
var (
	_ driven.CredentialStore   = (*CredentialStore)(nil)
	_ driven.CredentialWatcher = (*CredentialStore)(nil)
)

const (
	tokenFileMode = 0600
	tokenDirMode  = 0700
)

// CredentialStore persists credentials as JSON token files.
type CredentialStore struct{}

// NewCredentialStore creates a file-based credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Load reads and deserializes the token file at path.
// A missing file returns (nil, nil): absence means the interactive flow
// has never been run, which is not an error.
func (s *CredentialStore) Load(_ context.Context, path string) (*domain.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "load", Path: path, Err: err}
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, &domain.StorageError{Op: "load", Path: path, Err: fmt.Errorf("malformed token file: %w", err)}
	}

	return &cred, nil
}

// Save serializes the credential and writes it atomically: the JSON is
// written to a temp file in the same directory, fsynced, then renamed
// over the destination so a crash mid-write never corrupts the previous
// valid token. Parent directories are created as needed.
func (s *CredentialStore) Save(_ context.Context, path string, cred *domain.Credential) error {
	if cred == nil {
		return &domain.StorageError{Op: "save", Path: path, Err: domain.ErrInvalidInput}
	}

	if err := os.MkdirAll(filepath.Dir(path), tokenDirMode); err != nil {
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}

	// Temp file must be on the same filesystem for the rename to be atomic.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := tmp.Chmod(tokenFileMode); err != nil {
		cleanup()
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}

	return nil
}

// Delete removes the token file. Missing files are not an error.
func (s *CredentialStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &domain.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// Watch signals on the returned channel when the token file at path is
// rewritten or removed. The parent directory is watched rather than the
// file itself, because atomic saves replace the inode on every write.
func (s *CredentialStore) Watch(path string, stop <-chan struct{}) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &domain.StorageError{Op: "watch", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, &domain.StorageError{Op: "watch", Path: path, Err: err}
	}

	changes := make(chan string, 1)
	go func() {
		defer watcher.Close()
		defer close(changes)
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				select {
				case changes <- path:
				default:
					// A pending notification already covers this change.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("token file watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

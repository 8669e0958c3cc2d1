package oauth

import (
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// LoadClientSecret reads a Google client-secret JSON file (the
// "installed application" shape downloaded from the Cloud console) and
// returns the oauth2 configuration for the requested scopes.
func LoadClientSecret(path string, scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Path: path, Err: err}
	}

	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Path: path, Err: err}
	}

	return cfg, nil
}

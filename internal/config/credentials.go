// Package config reads the credential store and display settings from the
// user's config directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/glancelabs/quotaglance/internal/core"
)

// ErrStoreUnavailable wraps every failure to read or parse the credential
// store. Without credentials there is nothing to fetch, so callers treat
// this as fatal rather than rendering per-provider error rows.
var ErrStoreUnavailable = errors.New("credential store unavailable")

// ConfigDir is the directory holding credentials.json and settings.json.
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "quotaglance")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quotaglance")
}

func CredentialsPath() string {
	return filepath.Join(ConfigDir(), "credentials.json")
}

// LoadCredentials reads the default credential store. The store is written
// by provider login tooling; this program only ever reads it.
func LoadCredentials() (map[string]core.Credential, error) {
	return LoadCredentialsFrom(CredentialsPath())
}

// LoadCredentialsFrom parses a credential store file: a JSON object keyed
// by provider ID. A missing or unparseable file returns an error wrapping
// ErrStoreUnavailable.
func LoadCredentialsFrom(path string) (map[string]core.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStoreUnavailable, path, err)
	}
	creds := make(map[string]core.Credential)
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrStoreUnavailable, path, err)
	}
	return creds, nil
}

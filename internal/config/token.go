package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenStore persists the current session token as JSON with mode 0600.
// Both backends share the file; the local backend stores its opaque session
// ID in AccessToken.
type TokenStore struct {
	Path string
}

// NewTokenStore returns a TokenStore rooted at cfg.SessionPath().
func NewTokenStore(cfg Config) *TokenStore {
	return &TokenStore{Path: cfg.SessionPath()}
}

// Load returns the stored token, or (nil, nil) when none is stored.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, nil
	}
	return &tok, nil
}

// Save writes the token, creating the directory if needed.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	if tok == nil {
		return s.Clear()
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}

// Clear removes the stored token. A missing file is not an error.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

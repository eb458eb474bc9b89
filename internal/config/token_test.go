package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := &TokenStore{Path: filepath.Join(t.TempDir(), "nested", SessionFile)}

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok, "missing file means no session")

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "abc", RefreshToken: "ref", TokenType: "bearer"}))

	info, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "ref", tok.RefreshToken)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")

	tok, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SessionFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := (&TokenStore{Path: path}).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session file")
}

func TestTokenStore_EmptyAccessTokenIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), SessionFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"token_type":"bearer"}`), 0o600))

	tok, err := (&TokenStore{Path: path}).Load()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

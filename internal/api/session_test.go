package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	s := &Session{Token: "tok-123", UserID: 1, Username: "admin", Email: "admin@example.com"}
	require.NoError(t, SaveSession(s, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, *s, *loaded)

	require.NoError(t, ClearSession(path))
	loaded, err = LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing twice is fine.
	require.NoError(t, ClearSession(path))
}

func TestLoadSessionMissingFile(t *testing.T) {
	loaded, err := LoadSession(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadSessionEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: \"\"\n"), 0600))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

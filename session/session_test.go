package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestLoadWithoutFile(t *testing.T) {
	isolateConfig(t)

	_, err := Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	assert := assert.New(t)
	isolateConfig(t)

	in := &Session{Handle: "u.bsky.social", RefreshToken: "tok-1", PDS: "https://pds.example"}
	require.NoError(t, Save(in))

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(in, out)
}

func TestLoadFillsDefaultPDS(t *testing.T) {
	isolateConfig(t)

	require.NoError(t, Save(&Session{Handle: "u.bsky.social", RefreshToken: "tok-1"}))

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPDS, out.PDS)
}

func TestLoadEmptyToken(t *testing.T) {
	isolateConfig(t)

	require.NoError(t, Save(&Session{Handle: "u.bsky.social"}))

	_, err := Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestFileLayout(t *testing.T) {
	assert := assert.New(t)
	dir := isolateConfig(t)

	require.NoError(t, Save(&Session{Handle: "u.bsky.social", RefreshToken: "tok-1", PDS: "https://pds.example"}))

	b, err := os.ReadFile(filepath.Join(dir, "skycli", "session.json"))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal("u.bsky.social", m["handle"])
	assert.Equal("tok-1", m["session"])
	assert.Equal("https://pds.example", m["pds_url"])
	assert.Len(m, 3)
}

func TestSaveRewritesWholeFile(t *testing.T) {
	isolateConfig(t)

	require.NoError(t, Save(&Session{Handle: "old.bsky.social", RefreshToken: "tok-old", PDS: "https://pds.example"}))
	require.NoError(t, Save(&Session{Handle: "new.bsky.social", RefreshToken: "tok-new"}))

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "new.bsky.social", out.Handle)
	assert.Equal(t, "tok-new", out.RefreshToken)
	assert.Equal(t, DefaultPDS, out.PDS)
}

func TestClear(t *testing.T) {
	isolateConfig(t)

	// Clearing with nothing saved is fine.
	assert.NoError(t, Clear())

	require.NoError(t, Save(&Session{Handle: "u.bsky.social", RefreshToken: "tok-1"}))
	require.NoError(t, Clear())

	_, err := Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EnsureIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tokens.yaml")

	store, err := OpenStore(path)
	require.NoError(t, err)

	first, err := store.Ensure("metal-1")
	require.NoError(t, err)
	second, err := store.Ensure("metal-1")
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-ensuring must return the recorded token")

	other, err := store.Ensure("metal-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.String(), other.String())
}

func TestStore_SurvivesReload(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tokens.yaml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	issued, err := store.Ensure("metal-1")
	require.NoError(t, err)

	reloaded, err := OpenStore(path)
	require.NoError(t, err)
	got, err := reloaded.Ensure("metal-1")
	require.NoError(t, err)
	assert.Equal(t, issued, got)
}

func TestStore_RotateReplacesToken(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tokens.yaml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	old, err := store.Ensure("metal-1")
	require.NoError(t, err)

	rotated, err := store.Rotate("metal-1")
	require.NoError(t, err)
	assert.NotEqual(t, old.String(), rotated.String())

	// Rotation persists: a reload sees the new token, not the old one.
	reloaded, err := OpenStore(path)
	require.NoError(t, err)
	got, ok := reloaded.Lookup("metal-1")
	require.True(t, ok)
	assert.Equal(t, rotated, got)
}

func TestStore_ForgetAndHostnames(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tokens.yaml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	_, err = store.Ensure("metal-2")
	require.NoError(t, err)
	_, err = store.Ensure("metal-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"metal-1", "metal-2"}, store.Hostnames())

	require.NoError(t, store.Forget("metal-1"))
	require.NoError(t, store.Forget("never-seen"))
	assert.Equal(t, []string{"metal-2"}, store.Hostnames())
}

func TestOpenStore_MissingFileStartsEmpty(t *testing.T) {
	t.Parallel()
	store, err := OpenStore(filepath.Join(t.TempDir(), "absent", "tokens.yaml"))
	require.NoError(t, err)
	assert.Empty(t, store.Hostnames())
}

func TestOpenStore_RejectsMalformedState(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tokens: [not, a, map]"), 0o600))

	_, err := OpenStore(path)
	assert.Error(t, err)
}

func TestStore_StateFilePermissions(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tokens.yaml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	_, err = store.Ensure("metal-1")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

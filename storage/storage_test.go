package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreAndDelete(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	path, err := d.Store([]byte("fake png bytes"), ".png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "menu-items/"))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.True(t, d.Exists(path))

	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), data)

	require.NoError(t, d.Delete(path))
	assert.False(t, d.Exists(path))

	// Deleting again is a no-op, not an error.
	require.NoError(t, d.Delete(path))
}

func TestDiskUniquePaths(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	a, err := d.Store([]byte("a"), "jpg")
	require.NoError(t, err)
	b, err := d.Store([]byte("b"), "jpg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPlaceholderNeverDeleted(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	// Simulate a deployed placeholder file.
	full := filepath.Join(d.Root, filepath.FromSlash(Placeholder))
	require.NoError(t, os.WriteFile(full, []byte("placeholder"), 0o644))

	require.NoError(t, d.Delete(Placeholder))
	assert.True(t, d.Exists(Placeholder))

	require.NoError(t, d.Delete(""))
}

func TestExtensionNormalized(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	path, err := d.Store([]byte("x"), ".JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))
}

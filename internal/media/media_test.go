package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_ImportResolveRemove(t *testing.T) {
	lib, err := NewLibrary(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "lineup.MP4")
	require.NoError(t, os.WriteFile(src, []byte("clip-bytes"), 0644))

	name, err := lib.Import(src)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".mp4"), "extension is kept, lowercased")
	assert.Equal(t, name, filepath.Base(name), "stored name has no directory part")

	path, err := lib.Resolve(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "clip-bytes", string(data))

	require.NoError(t, lib.Remove(name))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, lib.Remove(name), "removing twice is fine")
}

func TestLibrary_ResolveRejectsEscapes(t *testing.T) {
	lib, err := NewLibrary(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../outside.mp4", "a/b.mp4"} {
		_, err := lib.Resolve(name)
		assert.ErrorIs(t, err, ErrOutsideLibrary, "%q", name)
	}
}

func TestLibrary_ImportMissingSource(t *testing.T) {
	lib, err := NewLibrary(t.TempDir())
	require.NoError(t, err)

	_, err = lib.Import(filepath.Join(t.TempDir(), "nope.mp4"))
	assert.Error(t, err)
}

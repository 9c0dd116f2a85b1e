package cache

// Test Plan for the Tag Cache:
// - Put then Get with matching mtime/size returns the stored tags
// - Get with a different mtime or size is a miss
// - Get for an unknown path is a miss
// - Put overwrites an existing entry (last writer wins)
// - Clear empties the cache; Stats reflects entry count
// - Reopening the cache preserves entries across instances
// - A nop cache never hits and never fails

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repomap/internal/tags"
)

func sampleTags() []tags.Tag {
	return []tags.Tag{
		{RelPath: "a.go", Name: "Alpha", Kind: tags.Definition, StartLine: 1, EndLine: 3, Signature: "func Alpha()"},
		{RelPath: "a.go", Name: "Beta", Kind: tags.Reference, StartLine: 7, EndLine: 7},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	stored := sampleTags()
	require.NoError(t, c.Put("a.go", 100, 42, stored))

	got, ok := c.Get("a.go", 100, 42)
	require.True(t, ok)
	assert.Equal(t, stored, got)
}

func TestCacheMetadataMismatchIsMiss(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("a.go", 100, 42, sampleTags()))

	_, ok := c.Get("a.go", 101, 42)
	assert.False(t, ok, "changed mtime must miss")

	_, ok = c.Get("a.go", 100, 43)
	assert.False(t, ok, "changed size must miss")

	_, ok = c.Get("other.go", 100, 42)
	assert.False(t, ok, "unknown path must miss")
}

func TestCacheLastWriterWins(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("a.go", 100, 42, sampleTags()))

	replacement := []tags.Tag{
		{RelPath: "a.go", Name: "Gamma", Kind: tags.Definition, StartLine: 2, EndLine: 2, Signature: "func Gamma()"},
	}
	require.NoError(t, c.Put("a.go", 200, 50, replacement))

	_, ok := c.Get("a.go", 100, 42)
	assert.False(t, ok)

	got, ok := c.Get("a.go", 200, 50)
	require.True(t, ok)
	assert.Equal(t, replacement, got)
}

func TestCacheClearAndStats(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("a.go", 1, 1, sampleTags()))
	require.NoError(t, c.Put("b.go", 2, 2, sampleTags()))

	entries, sizeBytes, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, entries)
	assert.Greater(t, sizeBytes, int64(0))

	require.NoError(t, c.Clear())
	entries, _, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, entries)
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	c, err := Open(root)
	require.NoError(t, err)
	require.NoError(t, c.Put("a.go", 100, 42, sampleTags()))
	require.NoError(t, c.Close())

	reopened, err := Open(root)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("a.go", 100, 42)
	require.True(t, ok)
	assert.Equal(t, sampleTags(), got)

	// The cache lives in its own versioned directory under root.
	assert.FileExists(t, filepath.Join(root, DirName, "tags.db"))
}

func TestNopCache(t *testing.T) {
	t.Parallel()

	c := Nop()
	require.NoError(t, c.Put("a.go", 1, 1, sampleTags()))
	_, ok := c.Get("a.go", 1, 1)
	assert.False(t, ok)
	require.NoError(t, c.Clear())
	require.NoError(t, c.Close())
}

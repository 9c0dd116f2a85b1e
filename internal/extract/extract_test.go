package extract

// Test Plan for the Extraction Service:
// - ExtractAll returns definition and reference tags for a Go file
// - Results are sorted by path, then line, then name
// - A cached unchanged file returns tags equal to a fresh extraction
// - Touching a file invalidates its cache entry
// - Unsupported or missing files are skipped with a warning, not an error
// - The progress callback fires once per file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repomap/internal/cache"
	"github.com/mvp-joe/repomap/internal/tags"
)

const goSource = `package sample

type Widget struct {
	size int
}

func NewWidget() *Widget {
	return &Widget{}
}

func (w *Widget) Resize(n int) {
	w.size = n
}
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExtractAllGoFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "widget.go", goSource)

	svc := NewService(root, cache.Nop())
	all, err := svc.ExtractAll(context.Background(), []string{"widget.go"})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	var defs []string
	for _, tag := range all {
		assert.Equal(t, "widget.go", tag.RelPath)
		if tag.Kind == tags.Definition {
			defs = append(defs, tag.Name)
		}
	}
	assert.Contains(t, defs, "Widget")
	assert.Contains(t, defs, "NewWidget")
	assert.Contains(t, defs, "Resize")
}

func TestExtractAllCacheEquivalence(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "widget.go", goSource)

	c, err := cache.Open(root)
	require.NoError(t, err)
	defer c.Close()

	fresh, err := NewService(root, cache.Nop()).ExtractAll(context.Background(), []string{"widget.go"})
	require.NoError(t, err)

	first, err := NewService(root, c).ExtractAll(context.Background(), []string{"widget.go"})
	require.NoError(t, err)
	assert.Equal(t, fresh, first)

	// Second run hits the cache; results must be identical.
	second, err := NewService(root, c).ExtractAll(context.Background(), []string{"widget.go"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractAllInvalidatesOnChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "widget.go", goSource)

	c, err := cache.Open(root)
	require.NoError(t, err)
	defer c.Close()

	_, err = NewService(root, c).ExtractAll(context.Background(), []string{"widget.go"})
	require.NoError(t, err)

	writeFile(t, root, "widget.go", goSource+"\nfunc Extra() {}\n")
	// mtime resolution can be coarse; the size change alone invalidates.
	now := time.Now()
	require.NoError(t, os.Chtimes(filepath.Join(root, "widget.go"), now, now))

	updated, err := NewService(root, c).ExtractAll(context.Background(), []string{"widget.go"})
	require.NoError(t, err)

	var defs []string
	for _, tag := range updated {
		if tag.Kind == tags.Definition {
			defs = append(defs, tag.Name)
		}
	}
	assert.Contains(t, defs, "Extra")
}

func TestExtractAllSkipsBadFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "good.go", goSource)
	writeFile(t, root, "notes.txt", "not source code")

	svc := NewService(root, cache.Nop())
	all, err := svc.ExtractAll(context.Background(), []string{"good.go", "notes.txt", "missing.go"})
	require.NoError(t, err)

	for _, tag := range all {
		assert.Equal(t, "good.go", tag.RelPath)
	}
	assert.NotEmpty(t, all)
}

func TestExtractAllProgress(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", goSource)
	writeFile(t, root, "b.go", goSource)

	var mu sync.Mutex
	var seen []string
	svc := NewService(root, cache.Nop(), WithProgress(func(relPath string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, relPath)
	}))

	_, err := svc.ExtractAll(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)

	assert.Len(t, seen, 2)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, seen)
}

package graph

// Test Plan for Reference Graph Construction:
// - Build creates an edge R -> D weighted by R's reference count of D's symbol
// - Self-edges are never created even when a file references its own symbol
// - Files with no tags appear as isolated nodes
// - Mentioned identifiers multiply edge weight by the mention boost
// - Symbols defined in many files are damped by the common factor
// - A tag set with definitions but no references links co-definers
// - Construction is deterministic across repeated runs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repomap/internal/tags"
)

func defTag(path, name string, line int) tags.Tag {
	return tags.Tag{RelPath: path, Name: name, Kind: tags.Definition, StartLine: line, EndLine: line}
}

func refTag(path, name string, line int) tags.Tag {
	return tags.Tag{RelPath: path, Name: name, Kind: tags.Reference, StartLine: line, EndLine: line}
}

func TestBuildBasicEdge(t *testing.T) {
	t.Parallel()

	allTags := []tags.Tag{
		defTag("a.go", "foo", 1),
		refTag("b.go", "foo", 3),
		refTag("b.go", "foo", 7),
	}
	rg := Build([]string{"a.go", "b.go"}, allTags, DefaultOptions())

	out := rg.OutWeights("b.go")
	require.NotNil(t, out)
	assert.Equal(t, 2.0, out["a.go"])

	// Definition weight attracted by foo in a.go matches the edge weight.
	assert.Equal(t, 2.0, rg.DefWeights("a.go")["foo"])

	symbols, ok := rg.EdgeSymbols("b.go", "a.go")
	require.True(t, ok)
	assert.Equal(t, 2.0, symbols["foo"])
}

func TestBuildNoSelfEdges(t *testing.T) {
	t.Parallel()

	allTags := []tags.Tag{
		defTag("a.go", "foo", 1),
		refTag("a.go", "foo", 5),
	}
	rg := Build([]string{"a.go"}, allTags, DefaultOptions())

	assert.Nil(t, rg.OutWeights("a.go"))
	_, ok := rg.EdgeSymbols("a.go", "a.go")
	assert.False(t, ok)
}

func TestBuildIsolatedNodes(t *testing.T) {
	t.Parallel()

	allTags := []tags.Tag{
		defTag("a.go", "foo", 1),
		refTag("b.go", "foo", 2),
	}
	rg := Build([]string{"a.go", "b.go", "orphan.txt"}, allTags, DefaultOptions())

	assert.Equal(t, 3, rg.Order())
	assert.Contains(t, rg.Files(), "orphan.txt")
	assert.Nil(t, rg.OutWeights("orphan.txt"))
	assert.Nil(t, rg.DefWeights("orphan.txt"))
}

func TestBuildMentionBoost(t *testing.T) {
	t.Parallel()

	allTags := []tags.Tag{
		defTag("a.go", "foo", 1),
		refTag("b.go", "foo", 2),
	}
	opts := DefaultOptions()
	opts.MentionedIdents = map[string]bool{"foo": true}
	rg := Build([]string{"a.go", "b.go"}, allTags, opts)

	assert.Equal(t, 10.0, rg.OutWeights("b.go")["a.go"])
}

func TestBuildCommonSymbolDamping(t *testing.T) {
	t.Parallel()

	// "init" is defined in five files, at the damping threshold.
	var allTags []tags.Tag
	definers := []string{"a.go", "b.go", "c.go", "d.go", "e.go"}
	for _, f := range definers {
		allTags = append(allTags, defTag(f, "init", 1))
	}
	allTags = append(allTags, refTag("user.go", "init", 3))

	rg := Build(append(definers, "user.go"), allTags, DefaultOptions())

	for _, d := range definers {
		assert.InDelta(t, 0.1, rg.OutWeights("user.go")[d], 1e-12)
	}
}

func TestBuildDefinitionsOnlyFallback(t *testing.T) {
	t.Parallel()

	allTags := []tags.Tag{
		defTag("a.go", "shared", 1),
		defTag("b.go", "shared", 1),
	}
	rg := Build([]string{"a.go", "b.go"}, allTags, DefaultOptions())

	assert.NotNil(t, rg.OutWeights("a.go"))
	assert.NotNil(t, rg.OutWeights("b.go"))
	assert.Equal(t, rg.OutWeights("a.go")["b.go"], rg.OutWeights("b.go")["a.go"])
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	allTags := []tags.Tag{
		defTag("a.go", "foo", 1),
		defTag("b.go", "bar", 1),
		refTag("c.go", "foo", 2),
		refTag("c.go", "bar", 3),
		refTag("a.go", "bar", 9),
	}
	files := []string{"c.go", "a.go", "b.go"}

	first := Build(files, allTags, DefaultOptions())
	for i := 0; i < 5; i++ {
		again := Build(files, allTags, DefaultOptions())
		assert.Equal(t, first.Files(), again.Files())
		for _, f := range first.Files() {
			assert.Equal(t, first.OutWeights(f), again.OutWeights(f))
			assert.Equal(t, first.DefWeights(f), again.DefWeights(f))
		}
	}
}

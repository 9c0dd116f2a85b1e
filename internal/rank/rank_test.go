package rank

// Test Plan for Centrality and Ranking:
// - Centrality sums to 1 for any non-empty graph, including disconnected ones
// - An empty graph yields an empty score map, not an error
// - A heavily referenced definer outranks its referencers
// - Per-file definition scores sum to the file's centrality
// - Focus personalization raises the focus file's mass
// - Ranking order is deterministic across repeated runs
// - Ties break by file path, then start line

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repomap/internal/graph"
	"github.com/mvp-joe/repomap/internal/tags"
)

func defTag(path, name string, line int) tags.Tag {
	return tags.Tag{RelPath: path, Name: name, Kind: tags.Definition, StartLine: line, EndLine: line, Signature: name}
}

func refTag(path, name string, line int) tags.Tag {
	return tags.Tag{RelPath: path, Name: name, Kind: tags.Reference, StartLine: line, EndLine: line}
}

// fooExample is the canonical three-file setup: a defines foo, b references
// it twice, c references it once.
func fooExample() ([]string, []tags.Tag) {
	files := []string{"a", "b", "c"}
	allTags := []tags.Tag{
		defTag("a", "foo", 1),
		refTag("b", "foo", 2),
		refTag("b", "foo", 5),
		refTag("c", "foo", 3),
	}
	return files, allTags
}

func TestCentralitySumsToOne(t *testing.T) {
	t.Parallel()

	files, allTags := fooExample()
	rg := graph.Build(files, allTags, graph.DefaultOptions())

	scores := Centrality(rg, nil, DefaultOptions())
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestCentralityDisconnectedGraph(t *testing.T) {
	t.Parallel()

	// Three isolated nodes: all dangling, uniform distribution.
	rg := graph.Build([]string{"x", "y", "z"}, nil, graph.DefaultOptions())
	scores := Centrality(rg, nil, DefaultOptions())

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.InDelta(t, scores["x"], scores["y"], 1e-9)
	assert.InDelta(t, scores["y"], scores["z"], 1e-9)
}

func TestCentralityEmptyGraph(t *testing.T) {
	t.Parallel()

	rg := graph.Build(nil, nil, graph.DefaultOptions())
	scores := Centrality(rg, nil, DefaultOptions())
	assert.Empty(t, scores)
}

func TestRankDefinerOutranksReferencers(t *testing.T) {
	t.Parallel()

	files, allTags := fooExample()
	allTags = append(allTags,
		defTag("b", "helper", 10),
		defTag("c", "main", 1),
	)
	rg := graph.Build(files, allTags, graph.DefaultOptions())

	focus := map[string]bool{"c": true}
	ranked := Rank(rg, focus, allTags, DefaultOptions())
	require.NotEmpty(t, ranked)

	pos := make(map[string]int)
	for i, rt := range ranked {
		pos[rt.RelPath+"/"+rt.Name] = i
	}
	assert.Less(t, pos["a/foo"], pos["b/helper"], "the definition of foo should outrank tags in b")
}

func TestRankScoresSumToCentrality(t *testing.T) {
	t.Parallel()

	files, allTags := fooExample()
	allTags = append(allTags, defTag("a", "bar", 8))
	rg := graph.Build(files, allTags, graph.DefaultOptions())

	opts := DefaultOptions()
	scores := Centrality(rg, nil, opts)
	ranked := Rank(rg, nil, allTags, opts)

	perFile := make(map[string]float64)
	for _, rt := range ranked {
		perFile[rt.RelPath] += rt.Score
	}
	assert.InDelta(t, scores["a"], perFile["a"], 1e-9)
}

func TestRankFocusPersonalization(t *testing.T) {
	t.Parallel()

	rg := graph.Build([]string{"x", "y"}, nil, graph.DefaultOptions())

	plain := Centrality(rg, nil, DefaultOptions())
	focused := Centrality(rg, map[string]bool{"x": true}, DefaultOptions())

	assert.Greater(t, focused["x"], plain["x"])
}

func TestRankDeterministic(t *testing.T) {
	t.Parallel()

	files, allTags := fooExample()
	allTags = append(allTags, defTag("b", "helper", 4), defTag("c", "main", 2))
	rg := graph.Build(files, allTags, graph.DefaultOptions())

	first := Rank(rg, map[string]bool{"c": true}, allTags, DefaultOptions())
	for i := 0; i < 5; i++ {
		again := Rank(rg, map[string]bool{"c": true}, allTags, DefaultOptions())
		assert.Equal(t, first, again)
	}
}

func TestRankTieBreaking(t *testing.T) {
	t.Parallel()

	// Two files with identical structure produce identical scores; order
	// must fall back to path, then line.
	allTags := []tags.Tag{
		defTag("bb", "one", 5),
		defTag("bb", "four", 7),
		defTag("aa", "two", 9),
		defTag("aa", "three", 2),
	}
	rg := graph.Build([]string{"aa", "bb"}, allTags, graph.DefaultOptions())

	ranked := Rank(rg, nil, allTags, DefaultOptions())
	require.Len(t, ranked, 4)
	assert.Equal(t, "aa", ranked[0].RelPath)
	assert.Equal(t, 2, ranked[0].StartLine)
	assert.Equal(t, "aa", ranked[1].RelPath)
	assert.Equal(t, 9, ranked[1].StartLine)
	assert.Equal(t, "bb", ranked[2].RelPath)
	assert.Equal(t, 5, ranked[2].StartLine)
	assert.Equal(t, "bb", ranked[3].RelPath)
	assert.Equal(t, 7, ranked[3].StartLine)
}

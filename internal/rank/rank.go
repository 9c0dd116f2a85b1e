// Package rank computes personalized random-walk centrality over the
// reference graph and distributes each file's score across its definition
// tags.
package rank

import (
	"sort"

	"github.com/mvp-joe/repomap/internal/graph"
	"github.com/mvp-joe/repomap/internal/tags"
)

// RankedTag pairs a definition tag with its importance score.
type RankedTag struct {
	tags.Tag
	Score float64
}

// Options tune the power iteration and personalization.
type Options struct {
	// Damping is the probability of following an edge rather than
	// teleporting, conventionally 0.85.
	Damping float64

	// Epsilon is the L1 convergence threshold.
	Epsilon float64

	// MaxIterations caps the power iteration. Reaching the cap yields the
	// current approximation, not an error.
	MaxIterations int

	// FocusBoost is the personalization multiplier for focus files.
	FocusBoost float64
}

// DefaultOptions returns the standard iteration parameters.
func DefaultOptions() Options {
	return Options{
		Damping:       0.85,
		Epsilon:       1e-6,
		MaxIterations: 100,
		FocusBoost:    100,
	}
}

// Centrality runs the personalized power iteration and returns each file's
// steady-state probability mass. The returned vector sums to 1 for any
// non-empty graph.
func Centrality(rg *graph.Graph, focus map[string]bool, opts Options) map[string]float64 {
	files := rg.Files()
	n := len(files)
	if n == 0 {
		return map[string]float64{}
	}

	// Personalization favors focus files; uniform when there are none.
	personal := make(map[string]float64, n)
	total := 0.0
	for _, f := range files {
		w := 1.0
		if focus[f] && opts.FocusBoost > 0 {
			w = opts.FocusBoost
		}
		personal[f] = w
		total += w
	}
	for f := range personal {
		personal[f] /= total
	}

	scores := make(map[string]float64, n)
	for _, f := range files {
		scores[f] = personal[f]
	}

	outTotals := make(map[string]float64, n)
	for _, f := range files {
		sum := 0.0
		for _, w := range rg.OutWeights(f) {
			sum += w
		}
		outTotals[f] = sum
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		next := make(map[string]float64, n)

		// Dangling nodes spread their mass uniformly over all nodes so
		// the vector stays a probability distribution.
		dangling := 0.0
		for _, f := range files {
			if outTotals[f] == 0 {
				dangling += scores[f]
			}
		}
		base := opts.Damping * dangling / float64(n)

		for _, f := range files {
			next[f] = (1-opts.Damping)*personal[f] + base
		}
		for _, f := range files {
			out := outTotals[f]
			if out == 0 {
				continue
			}
			share := opts.Damping * scores[f] / out
			for dst, w := range rg.OutWeights(f) {
				next[dst] += share * w
			}
		}

		diff := 0.0
		for _, f := range files {
			d := next[f] - scores[f]
			if d < 0 {
				d = -d
			}
			diff += d
		}
		scores = next
		if diff < opts.Epsilon {
			break
		}
	}

	return scores
}

// Rank computes centrality and produces the total order over definition
// tags: each file's score is split across its definitions in proportion to
// the incoming edge weight each symbol attracted. Files nothing references
// split their score uniformly across their definitions.
func Rank(rg *graph.Graph, focus map[string]bool, allTags []tags.Tag, opts Options) []RankedTag {
	centrality := Centrality(rg, focus, opts)

	defsByFile := make(map[string][]tags.Tag)
	for _, t := range allTags {
		if t.Kind != tags.Definition {
			continue
		}
		if _, ok := centrality[t.RelPath]; !ok {
			continue
		}
		defsByFile[t.RelPath] = append(defsByFile[t.RelPath], t)
	}

	var ranked []RankedTag
	for file, defs := range defsByFile {
		fileScore := centrality[file]
		weights := rg.DefWeights(file)

		totalWeight := 0.0
		symbolCount := make(map[string]int)
		for _, t := range defs {
			symbolCount[t.Name]++
		}
		for symbol, w := range weights {
			if symbolCount[symbol] > 0 {
				totalWeight += w
			}
		}

		for _, t := range defs {
			var score float64
			if totalWeight > 0 {
				score = fileScore * weights[t.Name] / totalWeight / float64(symbolCount[t.Name])
			} else {
				score = fileScore / float64(len(defs))
			}
			ranked = append(ranked, RankedTag{Tag: t, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].RelPath != ranked[j].RelPath {
			return ranked[i].RelPath < ranked[j].RelPath
		}
		return ranked[i].StartLine < ranked[j].StartLine
	})
	return ranked
}

// Package graph builds the weighted directed reference graph over files:
// an edge R -> D means file R references a symbol defined in file D.
package graph

import (
	"sort"

	dgraph "github.com/dominikbraun/graph"

	"github.com/mvp-joe/repomap/internal/tags"
)

// edgeData carries the per-symbol weight breakdown for one file pair.
type edgeData struct {
	Total     float64
	PerSymbol map[string]float64
}

// Graph is the reference graph over a candidate file set. Construction is
// deterministic for identical tag input: all index iteration is sorted.
type Graph struct {
	g     dgraph.Graph[string, string]
	files []string

	// out holds dst -> total weight per source, for the random walk.
	out map[string]map[string]float64

	// defWeight holds symbol -> attracted incoming weight per definer,
	// used to split a file's centrality across its definitions.
	defWeight map[string]map[string]float64
}

// Options tune the weight adjustments applied during construction.
type Options struct {
	// MentionedIdents boosts edges whose symbol the user named.
	MentionedIdents map[string]bool

	// MentionBoost multiplies edge weight for mentioned symbols.
	MentionBoost float64

	// CommonThreshold is the definer count at or above which a symbol is
	// considered generic and damped.
	CommonThreshold int

	// CommonFactor multiplies edge weight for generic symbols.
	CommonFactor float64
}

// DefaultOptions returns the standard weight adjustments.
func DefaultOptions() Options {
	return Options{
		MentionBoost:    10,
		CommonThreshold: 5,
		CommonFactor:    0.1,
	}
}

// Build constructs the reference graph for files from the complete tag set.
// Files with no tags become isolated nodes. Self-edges are never created.
func Build(files []string, allTags []tags.Tag, opts Options) *Graph {
	inSet := make(map[string]bool, len(files))
	for _, f := range files {
		inSet[f] = true
	}

	// Symbol indexes over the candidate set only.
	defines := make(map[string]map[string]bool)
	references := make(map[string]map[string]int)
	for _, t := range allTags {
		if !inSet[t.RelPath] {
			continue
		}
		switch t.Kind {
		case tags.Definition:
			if defines[t.Name] == nil {
				defines[t.Name] = make(map[string]bool)
			}
			defines[t.Name][t.RelPath] = true
		case tags.Reference:
			if references[t.Name] == nil {
				references[t.Name] = make(map[string]int)
			}
			references[t.Name][t.RelPath]++
		}
	}

	// A tag set with definitions but no references at all (e.g. header-only
	// input) still deserves a connected graph: let co-definers of a symbol
	// reference each other once.
	if len(references) == 0 {
		for symbol, definers := range defines {
			refs := make(map[string]int, len(definers))
			for f := range definers {
				refs[f] = 1
			}
			references[symbol] = refs
		}
	}

	rg := &Graph{
		g:         dgraph.New(dgraph.StringHash, dgraph.Directed()),
		files:     sortedCopy(files),
		out:       make(map[string]map[string]float64),
		defWeight: make(map[string]map[string]float64),
	}
	for _, f := range rg.files {
		_ = rg.g.AddVertex(f)
	}

	type pairKey struct{ from, to string }
	pairSymbols := make(map[pairKey]map[string]float64)

	for _, symbol := range sortedKeys(references) {
		definers := defines[symbol]
		if len(definers) == 0 {
			continue
		}

		mul := 1.0
		if opts.MentionedIdents[symbol] && opts.MentionBoost > 0 {
			mul *= opts.MentionBoost
		}
		if opts.CommonThreshold > 0 && len(definers) >= opts.CommonThreshold && opts.CommonFactor > 0 {
			mul *= opts.CommonFactor
		}

		for _, referencer := range sortedKeys(references[symbol]) {
			count := references[symbol][referencer]
			for _, definer := range sortedKeys(definers) {
				if referencer == definer {
					continue
				}
				w := mul * float64(count)

				key := pairKey{referencer, definer}
				if pairSymbols[key] == nil {
					pairSymbols[key] = make(map[string]float64)
				}
				pairSymbols[key][symbol] += w

				if rg.out[referencer] == nil {
					rg.out[referencer] = make(map[string]float64)
				}
				rg.out[referencer][definer] += w

				if rg.defWeight[definer] == nil {
					rg.defWeight[definer] = make(map[string]float64)
				}
				rg.defWeight[definer][symbol] += w
			}
		}
	}

	for key, perSymbol := range pairSymbols {
		total := 0.0
		for _, w := range perSymbol {
			total += w
		}
		_ = rg.g.AddEdge(key.from, key.to, dgraph.EdgeData(edgeData{
			Total:     total,
			PerSymbol: perSymbol,
		}))
	}

	return rg
}

// Files returns the node set in sorted order.
func (rg *Graph) Files() []string {
	return rg.files
}

// Order returns the number of nodes.
func (rg *Graph) Order() int {
	return len(rg.files)
}

// OutWeights returns dst -> total edge weight for edges leaving file.
// The returned map must not be mutated. Nil means no outgoing edges.
func (rg *Graph) OutWeights(file string) map[string]float64 {
	return rg.out[file]
}

// DefWeights returns symbol -> total incoming edge weight attracted by
// definitions in file. Nil means nothing references this file.
func (rg *Graph) DefWeights(file string) map[string]float64 {
	return rg.defWeight[file]
}

// EdgeSymbols returns the per-symbol weight breakdown for the edge
// from -> to, or false when no such edge exists.
func (rg *Graph) EdgeSymbols(from, to string) (map[string]float64, bool) {
	edge, err := rg.g.Edge(from, to)
	if err != nil {
		return nil, false
	}
	data, ok := edge.Properties.Data.(edgeData)
	if !ok {
		return nil, false
	}
	return data.PerSymbol, true
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

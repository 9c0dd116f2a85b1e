// Package tags defines the symbol tag data model shared by the extraction,
// graph, ranking, and rendering stages.
package tags

import "sort"

// Kind distinguishes symbol definitions from symbol references.
type Kind int

const (
	// Definition marks a tag that introduces a symbol (function, method, type).
	Definition Kind = iota
	// Reference marks a tag that uses a symbol defined elsewhere.
	Reference
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Definition:
		return "definition"
	case Reference:
		return "reference"
	default:
		return "unknown"
	}
}

// Tag is a single symbol occurrence extracted from a source file.
// Tags are immutable once produced; they live for one pipeline run.
type Tag struct {
	// RelPath is the repo-relative path of the file containing the symbol.
	RelPath string `json:"rel_path"`

	// Name is the symbol name as written in source.
	Name string `json:"name"`

	// Kind is Definition or Reference.
	Kind Kind `json:"kind"`

	// StartLine and EndLine are 1-based, inclusive source line numbers.
	// For references both usually point at the same line.
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	// Signature is the rendered declaration header. Empty for references.
	Signature string `json:"signature,omitempty"`
}

// SortTags orders tags by file path, then start line, then name.
// This is the canonical deterministic order used throughout the pipeline.
func SortTags(ts []Tag) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].RelPath != ts[j].RelPath {
			return ts[i].RelPath < ts[j].RelPath
		}
		if ts[i].StartLine != ts[j].StartLine {
			return ts[i].StartLine < ts[j].StartLine
		}
		return ts[i].Name < ts[j].Name
	})
}

// Definitions filters a tag list down to definition tags, preserving order.
func Definitions(ts []Tag) []Tag {
	var defs []Tag
	for _, t := range ts {
		if t.Kind == Definition {
			defs = append(defs, t)
		}
	}
	return defs
}

// Package parsers extracts symbol definition and reference tags from source
// files using tree-sitter. One parser per language; all parsers are stateless
// and safe for concurrent use.
package parsers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/repomap/internal/tags"
)

// Parser extracts tags from a single source file.
type Parser interface {
	// Language returns the language identifier (e.g. "go", "python").
	Language() string

	// Extract parses source and returns tags in source-line order.
	// relPath is recorded on each tag and should be the repo-relative path.
	Extract(source []byte, relPath string) ([]tags.Tag, error)
}

// registry maps file extensions to parser constructors.
// Constructors are cheap; parsers hold only the compiled grammar.
var registry = map[string]func() Parser{
	".go":   func() Parser { return NewGoParser() },
	".py":   func() Parser { return NewPythonParser() },
	".ts":   func() Parser { return NewTypeScriptParser() },
	".tsx":  func() Parser { return NewTypeScriptParser() },
	".js":   func() Parser { return NewTypeScriptParser() },
	".jsx":  func() Parser { return NewTypeScriptParser() },
	".java": func() Parser { return NewJavaParser() },
	".c":    func() Parser { return NewCParser() },
	".h":    func() Parser { return NewCParser() },
	".rs":   func() Parser { return NewRustParser() },
	".rb":   func() Parser { return NewRubyParser() },
	".php":  func() Parser { return NewPHPParser() },
}

// ForPath returns a parser for the file's extension, or false if the
// language is unsupported.
func ForPath(path string) (Parser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	ctor, ok := registry[ext]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Supported reports whether the file's language has a parser.
func Supported(path string) bool {
	_, ok := registry[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the sorted list of supported file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

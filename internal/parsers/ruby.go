package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// rubyParser extracts tags from Ruby files.
type rubyParser struct {
	*treeSitterParser
}

// NewRubyParser creates a new Ruby parser.
func NewRubyParser() *rubyParser {
	lang := sitter.NewLanguage(ruby.Language())
	return &rubyParser{
		treeSitterParser: newTreeSitterParser(lang, "ruby"),
	}
}

// Extract parses a Ruby source file and returns definition and reference tags.
func (p *rubyParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "method", "singleton_method", "class", "module":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: rubyHeader(n, source),
				})
			}
		case "call":
			if method := n.ChildByFieldName("method"); method != nil && method.Kind() == "identifier" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(method, source),
					Kind:      tags.Reference,
					StartLine: startLine(method),
					EndLine:   endLine(method),
				})
			}
		case "constant":
			// Constant usage, unless it names the enclosing class/module.
			parent := n.Parent()
			if parent != nil {
				if nameNode := parent.ChildByFieldName("name"); nameNode != nil && nameNode.StartByte() == n.StartByte() {
					return true
				}
			}
			result = append(result, tags.Tag{
				RelPath:   relPath,
				Name:      nodeText(n, source),
				Kind:      tags.Reference,
				StartLine: startLine(n),
				EndLine:   endLine(n),
			})
		}
		return true
	})

	return result, nil
}

// rubyHeader renders the def/class/module line. Ruby bodies are not a
// named field, so take the first source line of the node.
func rubyHeader(n *sitter.Node, source []byte) string {
	text := nodeText(n, source)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' || text[i] == ';' {
			text = text[:i]
			break
		}
	}
	return collapseWhitespace(text)
}

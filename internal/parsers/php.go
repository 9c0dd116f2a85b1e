package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// phpParser extracts tags from PHP files.
type phpParser struct {
	*treeSitterParser
}

// NewPHPParser creates a new PHP parser.
func NewPHPParser() *phpParser {
	lang := sitter.NewLanguage(php.LanguagePHP())
	return &phpParser{
		treeSitterParser: newTreeSitterParser(lang, "php"),
	}
}

// Extract parses a PHP source file and returns definition and reference tags.
func (p *phpParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition", "method_declaration", "class_declaration",
			"interface_declaration", "trait_declaration", "enum_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: declarationHeader(n, source),
				})
			}
		case "function_call_expression":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Kind() == "name" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(fn, source),
					Kind:      tags.Reference,
					StartLine: startLine(fn),
					EndLine:   endLine(fn),
				})
			}
		case "member_call_expression", "scoped_call_expression":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Reference,
					StartLine: startLine(nameNode),
					EndLine:   endLine(nameNode),
				})
			}
		case "object_creation_expression":
			if name := findChildByKind(n, "name"); name != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(name, source),
					Kind:      tags.Reference,
					StartLine: startLine(name),
					EndLine:   endLine(name),
				})
			}
		}
		return true
	})

	return result, nil
}

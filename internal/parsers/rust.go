package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// rustParser extracts tags from Rust files.
type rustParser struct {
	*treeSitterParser
}

// NewRustParser creates a new Rust parser.
func NewRustParser() *rustParser {
	lang := sitter.NewLanguage(rust.Language())
	return &rustParser{
		treeSitterParser: newTreeSitterParser(lang, "rust"),
	}
}

// Extract parses a Rust source file and returns definition and reference tags.
func (p *rustParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_item", "struct_item", "enum_item", "trait_item",
			"mod_item", "macro_definition":
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
		case "type_item":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: collapseWhitespace(nodeText(n, source)),
				})
			}
		case "call_expression":
			if name, node := rustCallTarget(n, source); name != "" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      name,
					Kind:      tags.Reference,
					StartLine: startLine(node),
					EndLine:   endLine(node),
				})
			}
		case "type_identifier":
			// Type usage, unless it names the enclosing item.
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

// rustCallTarget resolves the called name: identifier for plain calls, the
// final path segment for scoped calls (mod::fn), the field for method calls.
func rustCallTarget(call *sitter.Node, source []byte) (string, *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "", nil
	}
	switch fn.Kind() {
	case "identifier":
		return nodeText(fn, source), fn
	case "scoped_identifier":
		if name := fn.ChildByFieldName("name"); name != nil {
			return nodeText(name, source), name
		}
	case "field_expression":
		if field := fn.ChildByFieldName("field"); field != nil {
			return nodeText(field, source), field
		}
	}
	return "", nil
}

package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// cParser extracts tags from C files and headers.
type cParser struct {
	*treeSitterParser
}

// NewCParser creates a new C parser.
func NewCParser() *cParser {
	lang := sitter.NewLanguage(c.Language())
	return &cParser{
		treeSitterParser: newTreeSitterParser(lang, "c"),
	}
}

// Extract parses a C source file and returns definition and reference tags.
func (p *cParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			if name, _ := cDeclaratorName(n.ChildByFieldName("declarator"), source); name != "" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      name,
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: declarationHeader(n, source),
				})
			}
		case "struct_specifier", "enum_specifier", "union_specifier":
			// Only tag specifiers that carry a body, so forward declarations
			// and usages count as references via the name below.
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			if n.ChildByFieldName("body") != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: declarationHeader(n, source),
				})
			} else {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Reference,
					StartLine: startLine(nameNode),
					EndLine:   endLine(nameNode),
				})
			}
		case "type_definition":
			if name, _ := cDeclaratorName(n.ChildByFieldName("declarator"), source); name != "" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      name,
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: collapseWhitespace(nodeText(n, source)),
				})
			}
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Kind() == "identifier" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(fn, source),
					Kind:      tags.Reference,
					StartLine: startLine(fn),
					EndLine:   endLine(fn),
				})
			}
		case "type_identifier":
			parent := n.Parent()
			if parent != nil && parent.Kind() == "type_definition" {
				return true
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

// cDeclaratorName drills through pointer/function declarators to the
// underlying identifier.
func cDeclaratorName(decl *sitter.Node, source []byte) (string, *sitter.Node) {
	for decl != nil {
		switch decl.Kind() {
		case "identifier", "type_identifier", "field_identifier":
			return nodeText(decl, source), decl
		case "pointer_declarator", "function_declarator", "array_declarator", "parenthesized_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return "", nil
		}
	}
	return "", nil
}

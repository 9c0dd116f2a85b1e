package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// javaParser extracts tags from Java files.
type javaParser struct {
	*treeSitterParser
}

// NewJavaParser creates a new Java parser.
func NewJavaParser() *javaParser {
	lang := sitter.NewLanguage(java.Language())
	return &javaParser{
		treeSitterParser: newTreeSitterParser(lang, "java"),
	}
}

// Extract parses a Java source file and returns definition and reference tags.
func (p *javaParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "method_declaration", "constructor_declaration":
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
		case "method_invocation":
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
			typeNode := n.ChildByFieldName("type")
			if typeNode != nil && typeNode.Kind() == "type_identifier" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(typeNode, source),
					Kind:      tags.Reference,
					StartLine: startLine(typeNode),
					EndLine:   endLine(typeNode),
				})
			}
		case "type_identifier":
			// Type usage, unless it names the enclosing declaration or an
			// object creation (already handled above).
			parent := n.Parent()
			if parent != nil {
				if parent.Kind() == "object_creation_expression" {
					return true
				}
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

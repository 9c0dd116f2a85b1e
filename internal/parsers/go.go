package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// goParser extracts tags from Go files.
type goParser struct {
	*treeSitterParser
}

// NewGoParser creates a new Go parser.
func NewGoParser() *goParser {
	lang := sitter.NewLanguage(golang.Language())
	return &goParser{
		treeSitterParser: newTreeSitterParser(lang, "go"),
	}
}

// Extract parses a Go source file and returns definition and reference tags.
func (p *goParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration", "method_declaration":
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
		case "type_spec":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: "type " + nodeText(nameNode, source),
				})
				// Type identifiers inside the type_spec body are usages,
				// so keep walking; the type_identifier case below skips
				// the declared name via its parent check.
			}
		case "call_expression":
			if name, node := callTarget(n, source); name != "" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      name,
					Kind:      tags.Reference,
					StartLine: startLine(node),
					EndLine:   endLine(node),
				})
			}
		case "type_identifier":
			// A type_identifier is a usage unless it names the type being
			// declared (parent is type_spec and this is its name field).
			parent := n.Parent()
			if parent != nil && parent.Kind() == "type_spec" {
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

// callTarget resolves the referenced name of a call expression.
// For plain calls this is the identifier; for selector calls (pkg.Fn, x.Method)
// it is the selected field.
func callTarget(call *sitter.Node, source []byte) (string, *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "", nil
	}
	switch fn.Kind() {
	case "identifier":
		return nodeText(fn, source), fn
	case "selector_expression":
		if field := fn.ChildByFieldName("field"); field != nil {
			return nodeText(field, source), field
		}
	}
	return "", nil
}

package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// pythonParser extracts tags from Python files.
type pythonParser struct {
	*treeSitterParser
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() *pythonParser {
	lang := sitter.NewLanguage(python.Language())
	return &pythonParser{
		treeSitterParser: newTreeSitterParser(lang, "python"),
	}
}

// Extract parses a Python source file and returns definition and reference tags.
func (p *pythonParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition", "class_definition":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: pythonHeader(n, source),
				})
			}
		case "call":
			if name, node := pythonCallTarget(n, source); name != "" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      name,
					Kind:      tags.Reference,
					StartLine: startLine(node),
					EndLine:   endLine(node),
				})
			}
		case "import_from_statement", "import_statement":
			// Imported names are references to symbols defined elsewhere.
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(uint(i))
				if child.Kind() == "dotted_name" || child.Kind() == "aliased_import" {
					target := child
					if child.Kind() == "aliased_import" {
						if nameNode := child.ChildByFieldName("name"); nameNode != nil {
							target = nameNode
						}
					}
					if leaf := lastIdentifier(target, source); leaf != "" {
						result = append(result, tags.Tag{
							RelPath:   relPath,
							Name:      leaf,
							Kind:      tags.Reference,
							StartLine: startLine(target),
							EndLine:   endLine(target),
						})
					}
				}
			}
			return false
		}
		return true
	})

	return result, nil
}

// pythonHeader renders the def/class line up to the trailing colon.
func pythonHeader(n *sitter.Node, source []byte) string {
	header := declarationHeader(n, source)
	// declarationHeader stops before the body but leaves the colon.
	if len(header) > 0 && header[len(header)-1] == ':' {
		return header
	}
	return header + ":"
}

// pythonCallTarget resolves the called name: identifier for plain calls,
// the attribute for method calls (obj.method()).
func pythonCallTarget(call *sitter.Node, source []byte) (string, *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "", nil
	}
	switch fn.Kind() {
	case "identifier":
		return nodeText(fn, source), fn
	case "attribute":
		if attr := fn.ChildByFieldName("attribute"); attr != nil {
			return nodeText(attr, source), attr
		}
	}
	return "", nil
}

// lastIdentifier returns the final identifier of a dotted_name, or the node's
// own text for a bare identifier.
func lastIdentifier(n *sitter.Node, source []byte) string {
	if n.Kind() == "identifier" {
		return nodeText(n, source)
	}
	var last *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child.Kind() == "identifier" {
			last = child
		}
	}
	return nodeText(last, source)
}

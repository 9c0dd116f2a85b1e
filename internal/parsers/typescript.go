package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/repomap/internal/tags"
)

// typeScriptParser extracts tags from TypeScript and JavaScript files.
// The TSX grammar is a superset that handles plain TS/JS as well.
type typeScriptParser struct {
	*treeSitterParser
}

// NewTypeScriptParser creates a new TypeScript/JavaScript parser.
func NewTypeScriptParser() *typeScriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &typeScriptParser{
		treeSitterParser: newTreeSitterParser(lang, "typescript"),
	}
}

// Extract parses a TypeScript source file and returns definition and
// reference tags.
func (p *typeScriptParser) Extract(source []byte, relPath string) ([]tags.Tag, error) {
	root, cleanup, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var result []tags.Tag

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration", "class_declaration", "method_definition",
			"interface_declaration", "enum_declaration", "type_alias_declaration":
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
		case "variable_declarator":
			// const foo = () => {...} and const foo = function() {...}
			value := n.ChildByFieldName("value")
			nameNode := n.ChildByFieldName("name")
			if nameNode != nil && value != nil &&
				(value.Kind() == "arrow_function" || value.Kind() == "function_expression") {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(nameNode, source),
					Kind:      tags.Definition,
					StartLine: startLine(n),
					EndLine:   endLine(n),
					Signature: declarationHeader(value, source),
				})
			}
		case "call_expression":
			if name, node := tsCallTarget(n, source); name != "" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      name,
					Kind:      tags.Reference,
					StartLine: startLine(node),
					EndLine:   endLine(node),
				})
			}
		case "new_expression":
			if ctor := n.ChildByFieldName("constructor"); ctor != nil && ctor.Kind() == "identifier" {
				result = append(result, tags.Tag{
					RelPath:   relPath,
					Name:      nodeText(ctor, source),
					Kind:      tags.Reference,
					StartLine: startLine(ctor),
					EndLine:   endLine(ctor),
				})
			}
		case "type_identifier":
			// Type usage, unless it is the name of the enclosing declaration.
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

// tsCallTarget resolves the called name: identifier for plain calls, the
// member property for method calls (obj.method()).
func tsCallTarget(call *sitter.Node, source []byte) (string, *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "", nil
	}
	switch fn.Kind() {
	case "identifier":
		return nodeText(fn, source), fn
	case "member_expression":
		if prop := fn.ChildByFieldName("property"); prop != nil {
			return nodeText(prop, source), prop
		}
	}
	return "", nil
}

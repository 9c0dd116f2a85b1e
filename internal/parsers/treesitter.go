package parsers

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
}

func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// Language returns the language identifier.
func (p *treeSitterParser) Language() string {
	return p.lang
}

// parse parses source and returns the root node with a cleanup function.
// The caller must invoke cleanup when done with the tree.
func (p *treeSitterParser) parse(source []byte) (*sitter.Node, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		parser.Close()
		return nil, nil, fmt.Errorf("failed to parse %s source", p.lang)
	}

	cleanup := func() {
		tree.Close()
		parser.Close()
	}
	return tree.RootNode(), cleanup, nil
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// startLine and endLine convert tree-sitter positions to 1-based line numbers.
func startLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

func endLine(node *sitter.Node) int {
	return int(node.EndPosition().Row) + 1
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for
// each node. Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByKind finds the first direct child node with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// collapseWhitespace normalizes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// declarationHeader renders a definition's signature: the node text up to
// (but excluding) its body, with whitespace collapsed. Falls back to the
// first source line of the node when there is no body field.
func declarationHeader(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)

	if body := node.ChildByFieldName("body"); body != nil {
		headerLen := int(body.StartByte()) - int(node.StartByte())
		if headerLen > 0 && headerLen <= len(text) {
			return collapseWhitespace(text[:headerLen])
		}
	}

	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return collapseWhitespace(text)
}

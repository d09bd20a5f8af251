package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// walkTree recursively visits node and its descendants, depth first. The
// visitor returns false to stop descending into a node's children.
func walkTree(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		walkTree(node.Child(uint(i)), visit)
	}
}

// nodeText returns the verbatim source text spanned by node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nodeLines returns the 1-based inclusive [start, end] line span of node.
func nodeLines(node *sitter.Node) (start, end int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// defaultName pulls the "name" field, the convention nearly every
// tree-sitter grammar uses for the identifier of a declaration.
func defaultName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(nameNode, source))
}

// findDescendant returns the first descendant (including node itself)
// whose kind matches one of kinds.
func findDescendant(node *sitter.Node, kinds ...string) *sitter.Node {
	var found *sitter.Node
	walkTree(node, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		for _, k := range kinds {
			if n.Kind() == k {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

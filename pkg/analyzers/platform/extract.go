package platform

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ExtractText returns the exact substring of source text the node spans,
// taken from the node's own byte positions rather than line slicing, so a
// statement spanning multiple lines is extracted whole and sibling comments
// are never included.
//
// Returns ok=false when the span cannot be resolved (null node, inverted or
// out-of-range span). Callers must then categorize the statement as shared;
// extraction failure is never fatal.
func ExtractText(n sitter.Node, source []byte) (text string, ok bool) {
	if n.IsNull() {
		return "", false
	}

	start := int(n.StartByte())
	end := int(n.EndByte())

	if start < 0 || end <= start || end > len(source) {
		return "", false
	}

	return string(source[start:end]), true
}

// lineRange returns the 1-based inclusive source line range of a node.
func lineRange(n sitter.Node) (startLine, endLine int) {
	start := n.StartPoint()
	end := n.EndPoint()

	return int(start.Row) + 1, int(end.Row) + 1
}

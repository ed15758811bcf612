package platform

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// statementTypes are the node types the traversal recognizes as statements.
// Composite wrappers (blocks, parenthesized expressions, clauses) are
// deliberately absent: they never produce a StatementResult of their own.
var statementTypes = map[string]bool{
	"expression_statement":           true,
	"lexical_declaration":            true,
	"variable_declaration":           true,
	"function_declaration":           true,
	"generator_function_declaration": true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"import_statement":               true,
	"export_statement":               true,
	"return_statement":               true,
	"if_statement":                   true,
	"for_statement":                  true,
	"for_in_statement":               true,
	"while_statement":                true,
	"do_statement":                   true,
	"switch_statement":               true,
	"try_statement":                  true,
	"throw_statement":                true,
	"break_statement":                true,
	"continue_statement":             true,
	"labeled_statement":              true,
	"debugger_statement":             true,
	"type_alias_declaration":         true,
	"interface_declaration":          true,
	"enum_declaration":               true,
	"ambient_declaration":            true,
}

// Driver walks a parsed file's statement nodes in document order and
// categorizes each exactly once. Categorization happens inline during the
// walk, in a single pass; there is no separate scan-then-reconcile phase.
type Driver struct {
	categorizer *Categorizer
}

// NewDriver creates a traversal driver backed by the given registry.
func NewDriver(registry *Registry) *Driver {
	return &Driver{categorizer: NewCategorizer(registry)}
}

// TraverseFile visits every statement node of the tree rooted at root and
// returns the file's tally. Only the innermost recognized statement node
// covering a region produces a StatementResult, so a line shared by a
// composite statement and a nested statement is tallied exactly once and
// the three category counts always sum to the statement total.
func (d *Driver) TraverseFile(root sitter.Node, source []byte, path string) *FileTally {
	tally := &FileTally{Path: path}

	if !root.IsNull() {
		d.walk(root, source, tally)
	}

	return tally
}

// walk recurses in document order and reports whether the subtree produced
// at least one StatementResult. A recognized statement node produces a
// result only when none of its descendants did.
func (d *Driver) walk(n sitter.Node, source []byte, tally *FileTally) bool {
	produced := false

	for idx := range n.NamedChildCount() {
		if d.walk(n.NamedChild(idx), source, tally) {
			produced = true
		}
	}

	if produced || !statementTypes[n.Type()] {
		return produced
	}

	result, all := d.categorizer.Categorize(n, source, tally.Path)

	tally.Statements = append(tally.Statements, result)
	tally.Occurrences = append(tally.Occurrences, all...)

	switch result.Category {
	case CategoryWeb:
		tally.WebCount++
	case CategoryNative:
		tally.NativeCount++
	case CategoryShared:
		tally.SharedCount++
	}

	return true
}

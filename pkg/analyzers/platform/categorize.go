package platform

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Tree-sitter node type names the categorizer dispatches on. Shared by the
// tsx, typescript, and javascript grammars.
const (
	nodeJSXAttribute          = "jsx_attribute"
	nodeJSXOpeningElement     = "jsx_opening_element"
	nodeJSXSelfClosingElement = "jsx_self_closing_element"
	nodeCallExpression        = "call_expression"
	nodeMemberExpression      = "member_expression"
	nodeIdentifier            = "identifier"

	fieldFunction = "function"
	fieldObject   = "object"
	fieldProperty = "property"
	fieldName     = "name"
)

// literalTypes are subtrees the match walk never descends into. Matching is
// structural to begin with, but skipping these guarantees that a token
// spelled inside a string literal or comment can never produce an
// occurrence. Template strings are descended: their interpolations hold real
// code, while their text fragments are inert token nodes.
var literalTypes = map[string]bool{
	"string":  true,
	"comment": true,
	"regex":   true,
}

// Categorizer evaluates a single statement against the pattern registry and
// resolves conflicts between categories. Stateless beyond the registry;
// safe for concurrent use.
type Categorizer struct {
	registry *Registry
}

// NewCategorizer creates a Categorizer backed by the given registry.
func NewCategorizer(registry *Registry) *Categorizer {
	return &Categorizer{registry: registry}
}

// Categorize classifies one statement node.
//
// It returns the StatementResult carrying only the winning bucket's
// occurrences, plus the full ordered occurrence list (both buckets) for the
// audit trail. A statement whose source span cannot be extracted, or that
// matches nothing, is shared. Never fails: an unusual statement must not
// abort a whole-file scan.
func (c *Categorizer) Categorize(stmt sitter.Node, source []byte, file string) (StatementResult, []PatternOccurrence) {
	startLine, endLine := lineRange(stmt)

	result := StatementResult{
		Category:  CategoryShared,
		StartLine: startLine,
		EndLine:   endLine,
	}

	_, ok := ExtractText(stmt, source)
	if !ok {
		// Unresolvable span: forced shared, zero occurrences.
		return result, nil
	}

	var all []PatternOccurrence

	c.match(stmt, source, file, &all)

	category, winning := resolve(all)
	result.Category = category
	result.Occurrences = winning

	return result, all
}

// resolve applies the bucket conflict resolution: empty buckets mean shared,
// a single non-empty bucket wins outright, and when both have matches the
// larger bucket wins with web taking exact ties by convention.
func resolve(all []PatternOccurrence) (Category, []PatternOccurrence) {
	var web, native []PatternOccurrence

	for _, occ := range all {
		switch occ.Category {
		case CategoryWeb:
			web = append(web, occ)
		case CategoryNative:
			native = append(native, occ)
		}
	}

	switch {
	case len(web) == 0 && len(native) == 0:
		return CategoryShared, nil
	case len(native) == 0:
		return CategoryWeb, web
	case len(web) == 0:
		return CategoryNative, native
	case len(web) >= len(native):
		return CategoryWeb, web
	default:
		return CategoryNative, native
	}
}

// match walks the statement subtree in document order, dispatching each node
// to the structural matcher for its syntax shape.
func (c *Categorizer) match(n sitter.Node, source []byte, file string, out *[]PatternOccurrence) {
	typ := n.Type()
	if literalTypes[typ] {
		return
	}

	switch typ {
	case nodeJSXAttribute:
		c.matchAttribute(n, source, file, out)
	case nodeJSXOpeningElement, nodeJSXSelfClosingElement:
		c.matchTag(n, source, file, out)
	case nodeCallExpression:
		c.matchCall(n, source, file, out)
	case nodeMemberExpression:
		c.matchMember(n, source, file, out)
	}

	for idx := range n.NamedChildCount() {
		c.match(n.NamedChild(idx), source, file, out)
	}
}

// matchAttribute checks a JSX attribute name against attribute signatures.
func (c *Categorizer) matchAttribute(n sitter.Node, source []byte, file string, out *[]PatternOccurrence) {
	if n.NamedChildCount() == 0 {
		return
	}

	nameNode := n.NamedChild(0)

	name, ok := ExtractText(nameNode, source)
	if !ok {
		return
	}

	c.appendMatches(c.registry.attributeSignatures(name), nameNode, source, file, out)
}

// matchTag checks a JSX element tag name against tag signatures.
func (c *Categorizer) matchTag(n sitter.Node, source []byte, file string, out *[]PatternOccurrence) {
	nameNode := n.ChildByFieldName(fieldName)
	if nameNode.IsNull() {
		return
	}

	name, ok := ExtractText(nameNode, source)
	if !ok {
		return
	}

	c.appendMatches(c.registry.tagSignatures(name), nameNode, source, file, out)
}

// matchCall checks a call expression's callee against call signatures:
// Object.Property(...) for member callees, bare names for identifier
// callees.
func (c *Categorizer) matchCall(n sitter.Node, source []byte, file string, out *[]PatternOccurrence) {
	fn := n.ChildByFieldName(fieldFunction)
	if fn.IsNull() {
		return
	}

	switch fn.Type() {
	case nodeMemberExpression:
		object, property, ok := memberParts(fn, source)
		if !ok {
			return
		}

		c.appendMatches(c.registry.callSignatures(object, property), fn, source, file, out)
	case nodeIdentifier:
		name, ok := ExtractText(fn, source)
		if !ok {
			return
		}

		c.appendMatches(c.registry.calleeSignatures(name), fn, source, file, out)
	}
}

// matchMember checks an object.property access against member signatures.
func (c *Categorizer) matchMember(n sitter.Node, source []byte, file string, out *[]PatternOccurrence) {
	object, property, ok := memberParts(n, source)
	if !ok {
		return
	}

	c.appendMatches(c.registry.memberSignatures(object, property), n, source, file, out)
}

// memberParts extracts the object and property identifier text of a member
// expression. Only identifier objects participate in matching; a chained
// object (a.b.c) is matched at its own member_expression node instead.
func memberParts(n sitter.Node, source []byte) (object, property string, ok bool) {
	objectNode := n.ChildByFieldName(fieldObject)
	propertyNode := n.ChildByFieldName(fieldProperty)

	if objectNode.IsNull() || propertyNode.IsNull() || objectNode.Type() != nodeIdentifier {
		return "", "", false
	}

	object, objOK := ExtractText(objectNode, source)
	property, propOK := ExtractText(propertyNode, source)

	if !objOK || !propOK {
		return "", "", false
	}

	return object, property, true
}

// appendMatches records one occurrence per matching signature, anchored at
// the node that constitutes the match.
func (c *Categorizer) appendMatches(sigs []Signature, n sitter.Node, source []byte, file string, out *[]PatternOccurrence) {
	if len(sigs) == 0 {
		return
	}

	matched, ok := ExtractText(n, source)
	if !ok {
		return
	}

	line, _ := lineRange(n)

	for _, sig := range sigs {
		*out = append(*out, PatternOccurrence{
			File:        file,
			Line:        line,
			Category:    sig.Category,
			Signature:   sig.ID,
			Reason:      sig.Reason,
			MatchedText: matched,
		})
	}
}

// Package platform implements the cross-platform statement categorization
// analyzer: it classifies every statement of a component source file as
// web-specific, native-specific, or shared, and aggregates the results into
// a reusability report.
package platform

import (
	"errors"
	"fmt"
)

// Category classifies a statement or signature.
type Category string

// Category values. Signatures carry web or native; statements may also be
// shared when no signature matches.
const (
	CategoryWeb    Category = "web"
	CategoryNative Category = "native"
	CategoryShared Category = "shared"
)

// SignatureKind selects the structural matcher a signature is evaluated with.
type SignatureKind string

// Signature kinds. Each kind matches one syntax shape; there is no raw
// substring matching, so tokens inside string literals or comments can
// never produce occurrences.
const (
	// KindAttribute matches a JSX attribute by name (e.g. className, onPress).
	KindAttribute SignatureKind = "attribute"

	// KindTag matches a JSX element tag by name (e.g. div, View).
	KindTag SignatureKind = "tag"

	// KindCall matches a call expression. With Object set it matches
	// Object.Property(...) calls (Property empty = any method); with Name
	// set it matches bare identifier calls.
	KindCall SignatureKind = "call"

	// KindMember matches a member access Object.Property (Property empty =
	// any property).
	KindMember SignatureKind = "member"
)

// Signature is one detectable pattern: a structural matcher, the category it
// evidences, and a fixed human-readable reason. Signatures are immutable and
// defined once at process start.
type Signature struct {
	ID       string        `json:"id"       yaml:"id"`
	Kind     SignatureKind `json:"kind"     yaml:"kind"`
	Category Category      `json:"category" yaml:"category"`
	Name     string        `json:"name,omitempty"     yaml:"name,omitempty"`
	Object   string        `json:"object,omitempty"   yaml:"object,omitempty"`
	Property string        `json:"property,omitempty" yaml:"property,omitempty"`
	Reason   string        `json:"reason"   yaml:"reason"`
}

// Matcher returns the signature's matcher in display form, e.g.
// "className", "<div>", "StyleSheet.create()", "document.*".
func (s Signature) Matcher() string {
	switch s.Kind {
	case KindAttribute:
		return s.Name
	case KindTag:
		return "<" + s.Name + ">"
	case KindCall:
		if s.Object != "" {
			return s.Object + "." + propertyOrStar(s.Property) + "()"
		}

		return s.Name + "()"
	case KindMember:
		return s.Object + "." + propertyOrStar(s.Property)
	default:
		return s.ID
	}
}

func propertyOrStar(property string) string {
	if property == "" {
		return "*"
	}

	return property
}

// ErrRegistryMisconfigured wraps every registry validation failure. An
// inconsistent registry would silently corrupt every file's categorization,
// so construction fails hard before any file is processed.
var ErrRegistryMisconfigured = errors.New("pattern registry misconfigured")

// Registry is the immutable catalogue of category-defining signatures.
// Order is insertion order and is stable across runs; it matters only for
// deterministic enumeration. Safe for concurrent readers.
type Registry struct {
	signatures []Signature

	attrs   map[string][]Signature
	tags    map[string][]Signature
	members map[string][]Signature // keyed by object name
	calls   map[string][]Signature // member calls, keyed by object name
	callees map[string][]Signature // bare identifier calls, keyed by name
}

// NewRegistry validates the signatures and builds the lookup indexes.
// Any invalid signature is an ErrRegistryMisconfigured naming it.
func NewRegistry(signatures []Signature) (*Registry, error) {
	reg := &Registry{
		signatures: make([]Signature, 0, len(signatures)),
		attrs:      make(map[string][]Signature),
		tags:       make(map[string][]Signature),
		members:    make(map[string][]Signature),
		calls:      make(map[string][]Signature),
		callees:    make(map[string][]Signature),
	}

	seen := make(map[string]bool, len(signatures))

	for _, sig := range signatures {
		validateErr := validateSignature(sig, seen)
		if validateErr != nil {
			return nil, validateErr
		}

		seen[sig.ID] = true
		reg.signatures = append(reg.signatures, sig)
		reg.index(sig)
	}

	return reg, nil
}

// NewDefaultRegistry builds the compiled-in registry. The default table is
// fixed per analyzer version; identical input plus an identical registry
// yields byte-for-byte identical summaries.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultSignatures())
}

func validateSignature(sig Signature, seen map[string]bool) error {
	if sig.ID == "" {
		return fmt.Errorf("%w: signature with empty id (reason %q)", ErrRegistryMisconfigured, sig.Reason)
	}

	if seen[sig.ID] {
		return fmt.Errorf("%w: duplicate signature id %q", ErrRegistryMisconfigured, sig.ID)
	}

	if sig.Category != CategoryWeb && sig.Category != CategoryNative {
		return fmt.Errorf("%w: signature %q has category %q, want web or native",
			ErrRegistryMisconfigured, sig.ID, sig.Category)
	}

	if sig.Reason == "" {
		return fmt.Errorf("%w: signature %q has no reason", ErrRegistryMisconfigured, sig.ID)
	}

	return validateMatcher(sig)
}

func validateMatcher(sig Signature) error {
	switch sig.Kind {
	case KindAttribute, KindTag:
		if sig.Name == "" {
			return fmt.Errorf("%w: %s signature %q needs a name", ErrRegistryMisconfigured, sig.Kind, sig.ID)
		}
	case KindCall:
		if sig.Name == "" && sig.Object == "" {
			return fmt.Errorf("%w: call signature %q needs a name or an object", ErrRegistryMisconfigured, sig.ID)
		}
	case KindMember:
		if sig.Object == "" {
			return fmt.Errorf("%w: member signature %q needs an object", ErrRegistryMisconfigured, sig.ID)
		}
	default:
		return fmt.Errorf("%w: signature %q has unknown kind %q", ErrRegistryMisconfigured, sig.ID, sig.Kind)
	}

	return nil
}

func (r *Registry) index(sig Signature) {
	switch sig.Kind {
	case KindAttribute:
		r.attrs[sig.Name] = append(r.attrs[sig.Name], sig)
	case KindTag:
		r.tags[sig.Name] = append(r.tags[sig.Name], sig)
	case KindMember:
		r.members[sig.Object] = append(r.members[sig.Object], sig)
	case KindCall:
		if sig.Object != "" {
			r.calls[sig.Object] = append(r.calls[sig.Object], sig)
		} else {
			r.callees[sig.Name] = append(r.callees[sig.Name], sig)
		}
	}
}

// Signatures returns all signatures in insertion order.
func (r *Registry) Signatures() []Signature {
	return r.signatures
}

// SignaturesFor returns the signatures of one category, in insertion order.
func (r *Registry) SignaturesFor(category Category) []Signature {
	var out []Signature

	for _, sig := range r.signatures {
		if sig.Category == category {
			out = append(out, sig)
		}
	}

	return out
}

// attributeSignatures returns signatures matching a JSX attribute name.
func (r *Registry) attributeSignatures(name string) []Signature {
	return r.attrs[name]
}

// tagSignatures returns signatures matching a JSX tag name.
func (r *Registry) tagSignatures(name string) []Signature {
	return r.tags[name]
}

// memberSignatures returns signatures matching an object.property access.
func (r *Registry) memberSignatures(object, property string) []Signature {
	return filterByProperty(r.members[object], property)
}

// callSignatures returns signatures matching an object.property(...) call.
func (r *Registry) callSignatures(object, property string) []Signature {
	return filterByProperty(r.calls[object], property)
}

// calleeSignatures returns signatures matching a bare identifier call.
func (r *Registry) calleeSignatures(name string) []Signature {
	return r.callees[name]
}

func filterByProperty(candidates []Signature, property string) []Signature {
	var out []Signature

	for _, sig := range candidates {
		if sig.Property == "" || sig.Property == property {
			out = append(out, sig)
		}
	}

	return out
}

// DefaultSignatures returns the compiled-in signature table described in the
// analyzer documentation: DOM-coupled patterns as web, React Native-coupled
// patterns as native.
func DefaultSignatures() []Signature {
	return []Signature{
		// Web: JSX styling and DOM event props.
		{ID: "web.attr.className", Kind: KindAttribute, Category: CategoryWeb, Name: "className",
			Reason: "className targets the DOM class system"},
		{ID: "web.attr.onClick", Kind: KindAttribute, Category: CategoryWeb, Name: "onClick",
			Reason: "onClick is a DOM event handler prop"},
		{ID: "web.attr.onChange", Kind: KindAttribute, Category: CategoryWeb, Name: "onChange",
			Reason: "onChange is a DOM event handler prop"},
		{ID: "web.attr.onSubmit", Kind: KindAttribute, Category: CategoryWeb, Name: "onSubmit",
			Reason: "onSubmit is a DOM event handler prop"},

		// Web: browser globals and storage.
		{ID: "web.member.document", Kind: KindMember, Category: CategoryWeb, Object: "document",
			Reason: "document accesses the browser DOM"},
		{ID: "web.member.window", Kind: KindMember, Category: CategoryWeb, Object: "window",
			Reason: "window is a browser-only global"},
		{ID: "web.member.localStorage", Kind: KindMember, Category: CategoryWeb, Object: "localStorage",
			Reason: "localStorage is a browser storage API"},
		{ID: "web.member.sessionStorage", Kind: KindMember, Category: CategoryWeb, Object: "sessionStorage",
			Reason: "sessionStorage is a browser storage API"},

		// Web: HTML element tags.
		{ID: "web.tag.div", Kind: KindTag, Category: CategoryWeb, Name: "div",
			Reason: "<div> renders only in the DOM"},
		{ID: "web.tag.span", Kind: KindTag, Category: CategoryWeb, Name: "span",
			Reason: "<span> renders only in the DOM"},
		{ID: "web.tag.input", Kind: KindTag, Category: CategoryWeb, Name: "input",
			Reason: "<input> renders only in the DOM"},
		{ID: "web.tag.button", Kind: KindTag, Category: CategoryWeb, Name: "button",
			Reason: "<button> renders only in the DOM"},

		// Native: style tables and platform branching.
		{ID: "native.call.stylesheet", Kind: KindCall, Category: CategoryNative,
			Object: "StyleSheet", Property: "create",
			Reason: "StyleSheet.create builds React Native style tables"},
		{ID: "native.member.platformOS", Kind: KindMember, Category: CategoryNative,
			Object: "Platform", Property: "OS",
			Reason: "Platform.OS branches on the native platform"},
		{ID: "native.call.platformSelect", Kind: KindCall, Category: CategoryNative,
			Object: "Platform", Property: "select",
			Reason: "Platform.select branches on the native platform"},

		// Native: persistence.
		{ID: "native.call.asyncStorage", Kind: KindCall, Category: CategoryNative,
			Object: "AsyncStorage",
			Reason: "AsyncStorage is the React Native persistence API"},

		// Native: core component tags.
		{ID: "native.tag.view", Kind: KindTag, Category: CategoryNative, Name: "View",
			Reason: "View is a React Native core component"},
		{ID: "native.tag.text", Kind: KindTag, Category: CategoryNative, Name: "Text",
			Reason: "Text is a React Native core component"},
		{ID: "native.tag.touchableOpacity", Kind: KindTag, Category: CategoryNative, Name: "TouchableOpacity",
			Reason: "TouchableOpacity is a React Native core component"},
		{ID: "native.tag.scrollView", Kind: KindTag, Category: CategoryNative, Name: "ScrollView",
			Reason: "ScrollView is a React Native core component"},

		// Native: touch handler props.
		{ID: "native.attr.onPress", Kind: KindAttribute, Category: CategoryNative, Name: "onPress",
			Reason: "onPress is a React Native touch handler prop"},
	}
}

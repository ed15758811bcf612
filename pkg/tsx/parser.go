// Package tsx wraps tree-sitter parsing for the JSX/TSX component dialects
// reuselens analyzes. It is the parser boundary: callers receive a parsed
// tree with per-node source positions and never touch grammar loading.
package tsx

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	forest "github.com/alexaandru/go-sitter-forest"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parser operations.
var (
	errNoExtension         = errors.New("no file extension found")
	errUnsupportedExt      = errors.New("unsupported file extension")
	errLanguageUnavailable = errors.New("tree-sitter language not available")
	errNoRootNode          = errors.New("parse produced no root node")
	// ErrSyntaxError is returned when the grammar could not recover a
	// well-formed tree. Callers treat it as a per-file parse failure.
	ErrSyntaxError = errors.New("source contains syntax errors")
	errPoolType    = errors.New("parser pool returned unexpected type")
)

// grammarByExt maps supported file extensions to tree-sitter grammar names.
// TSX needs its own grammar; plain TypeScript rejects JSX syntax.
var grammarByExt = map[string]string{
	".tsx": "tsx",
	".ts":  "typescript",
	".jsx": "javascript",
	".js":  "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
}

// languageParser owns one tree-sitter language and a pool of parsers for it.
type languageParser struct {
	name string
	lang *sitter.Language
	pool sync.Pool
}

// Parser parses component source files into tree-sitter trees.
// Safe for concurrent use: each Parse draws from a per-language parser pool.
type Parser struct {
	byExt map[string]*languageParser
}

// NewParser resolves all supported grammars and returns a ready Parser.
// A missing grammar is a startup error, not a per-file one: every scan
// depends on the same grammar set.
func NewParser() (*Parser, error) {
	byName := make(map[string]*languageParser)
	byExt := make(map[string]*languageParser, len(grammarByExt))

	for ext, name := range grammarByExt {
		lp, ok := byName[name]
		if !ok {
			lang := lookupLanguage(name)
			if lang == nil {
				return nil, fmt.Errorf("%w: %s", errLanguageUnavailable, name)
			}

			lp = &languageParser{name: name, lang: lang}
			lp.pool = sync.Pool{
				New: func() any {
					tsParser := sitter.NewParser()
					tsParser.SetLanguage(lang)

					return tsParser
				},
			}
			byName[name] = lp
		}

		byExt[ext] = lp
	}

	return &Parser{byExt: byExt}, nil
}

// lookupLanguage resolves a grammar by name with panic recovery; the forest
// panics on unknown names.
func lookupLanguage(name string) *sitter.Language {
	var lang *sitter.Language

	func() {
		defer func() {
			_ = recover() //nolint:errcheck // recover() returns any, not error
		}()

		lang = forest.GetLanguage(name)
	}()

	return lang
}

// IsSupported returns true if the filename maps to a known grammar.
func (p *Parser) IsSupported(filename string) bool {
	_, ok := p.byExt[fileExtension(filename)]

	return ok
}

// Language returns the grammar name used for the given filename, or "".
func (p *Parser) Language(filename string) string {
	lp, ok := p.byExt[fileExtension(filename)]
	if !ok {
		return ""
	}

	return lp.name
}

// Parse parses file content and returns the syntax tree.
// Returns ErrSyntaxError (wrapped) when the tree contains ERROR nodes;
// such files are reported as skipped, never analyzed partially.
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*Tree, error) {
	ext := fileExtension(filename)
	if ext == "" {
		return nil, fmt.Errorf("%w: %s", errNoExtension, filename)
	}

	lp, ok := p.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedExt, ext)
	}

	tsParser, ok := lp.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer lp.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, fmt.Errorf("parse %s: %w", filename, errNoRootNode)
	}

	if root.HasError() {
		tree.Close()

		return nil, fmt.Errorf("parse %s: %w", filename, ErrSyntaxError)
	}

	return &Tree{root: root, tree: tree, source: content, language: lp.name}, nil
}

// Tree is a parsed source file. The underlying tree-sitter tree stays alive
// until Close is called; nodes must not be used afterwards.
type Tree struct {
	root     sitter.Node
	tree     *sitter.Tree
	source   []byte
	language string
}

// Root returns the root syntax node.
func (t *Tree) Root() sitter.Node { return t.root }

// Source returns the original file content the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Language returns the grammar name the tree was parsed with.
func (t *Tree) Language() string { return t.language }

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

func fileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/pkg/scanner"
	"github.com/reuselens/reuselens/pkg/tsx"
)

// writeTree creates the given files (relative paths, empty dirs made as
// needed) under a temp root and returns the root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func newTestParser(t *testing.T) *tsx.Parser {
	t.Helper()

	parser, err := tsx.NewParser()
	require.NoError(t, err)

	return parser
}

func TestCollectFiles_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/App.tsx":                     "const a = 1;",
		"src/util.ts":                     "const b = 2;",
		"src/types.d.ts":                  "declare const c: number;",
		"src/style.css":                   ".a {}",
		"node_modules/react/index.js":     "module.exports = {};",
		".cache/tmp.tsx":                  "const d = 3;",
		"vendor/lib/widget.js":            "var e;",
		"dist/bundle.js":                  "var f;",
		"components/deep/Nested.jsx":      "const g = 4;",
		"components/deep/Nested.test.tsx": "const h = 5;",
	})

	files, err := scanner.CollectFiles([]string{root}, newTestParser(t))
	require.NoError(t, err)

	expected := []string{
		filepath.Join(root, "components/deep/Nested.jsx"),
		filepath.Join(root, "components/deep/Nested.test.tsx"),
		filepath.Join(root, "src/App.tsx"),
		filepath.Join(root, "src/util.ts"),
	}

	assert.Equal(t, expected, files)
}

func TestCollectFiles_SingleFileRoot(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"App.tsx": "const a = 1;"})
	target := filepath.Join(root, "App.tsx")

	files, err := scanner.CollectFiles([]string{target}, newTestParser(t))
	require.NoError(t, err)

	assert.Equal(t, []string{target}, files)
}

func TestCollectFiles_UnsupportedFileRoot(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"notes.md": "# notes"})

	files, err := scanner.CollectFiles([]string{filepath.Join(root, "notes.md")}, newTestParser(t))
	require.NoError(t, err)

	assert.Empty(t, files)
}

func TestCollectFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := scanner.CollectFiles([]string{filepath.Join(t.TempDir(), "absent")}, newTestParser(t))
	require.Error(t, err)
}

func TestCollectFiles_DeduplicatesOverlappingRoots(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"App.tsx": "const a = 1;"})

	files, err := scanner.CollectFiles([]string{root, root}, newTestParser(t))
	require.NoError(t, err)

	assert.Len(t, files, 1)
}

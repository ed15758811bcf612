// Package scanner discovers component source files and runs the
// categorization pipeline over them, one independent worker per file.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/reuselens/reuselens/pkg/tsx"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// declarationSuffix marks TypeScript declaration files, which carry type
// surface only and would skew the statement tallies.
const declarationSuffix = ".d.ts"

// CollectFiles walks the given roots and returns every supported component
// source file, deduplicated and sorted by path. Vendored trees (per enry)
// and declaration files are excluded. A root that is itself a file is
// accepted when supported.
func CollectFiles(roots []string, parser *tsx.Parser) ([]string, error) {
	seen := make(map[string]bool)

	var files []string

	for _, root := range roots {
		info, statErr := os.Stat(root)
		if statErr != nil {
			return nil, fmt.Errorf("stat %s: %w", root, statErr)
		}

		if !info.IsDir() {
			if acceptFile(root, parser) && !seen[root] {
				seen[root] = true
				files = append(files, root)
			}

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if skipDir(entry.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if acceptFile(path, parser) && !enry.IsVendor(path) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	sort.Strings(files)

	return files, nil
}

func skipDir(name string) bool {
	if skipDirs[name] {
		return true
	}

	// Hidden directories.
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func acceptFile(path string, parser *tsx.Parser) bool {
	if strings.HasSuffix(path, declarationSuffix) {
		return false
	}

	return parser.IsSupported(path)
}

package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/source/yamlsource"
)

// Discover expands paths into the sorted list of input files. Directories
// are walked recursively, skipping hidden directories, vendor, testdata
// and names starting with "_". Explicitly named files are always
// included when they are inputs.
func (e *Engine) Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, vgenerrors.NewIOError(root, err)
		}
		if !info.IsDir() {
			if e.IsInput(root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if e.IsInput(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, vgenerrors.NewIOError(root, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// IsInput reports whether path names a file vgen reads: a YAML descriptor
// or a Go source file that is neither a test nor generated output.
func (e *Engine) IsInput(path string) bool {
	if yamlsource.IsDescriptor(path) {
		return true
	}
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".go") &&
		!strings.HasSuffix(base, "_test.go") &&
		!strings.HasSuffix(base, e.cfg.Generate.FileSuffix)
}

// OutputPath returns the generated file written for input.
func (e *Engine) OutputPath(input string) string {
	stem := strings.TrimSuffix(input, ".go")
	if yamlsource.IsDescriptor(input) {
		stem = strings.TrimSuffix(input, yamlsource.Extension)
	}
	return stem + e.cfg.Generate.FileSuffix
}

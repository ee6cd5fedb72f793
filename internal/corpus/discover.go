package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tree is the on-disk corpus: a root directory with one subdirectory per
// suite. Discovery is read-only and deterministic; os.ReadDir returns
// entries sorted by name, so the fixture order is the lexicographic walk
// of the tree.
type Tree struct {
	Root      string
	SourceExt string // extension of fixture sources, with the dot, e.g. ".src"
}

// Discover lists the fixtures of one suite in report order. A missing
// suite directory is an error: a corpus that silently lost a suite would
// report a hollow success.
func (t Tree) Discover(suite Suite) ([]Fixture, error) {
	switch {
	case suite.Kind.Categorized():
		return t.discoverCategorized(suite)
	case suite.Kind == KindEmit:
		return t.discoverFlat(suite)
	case suite.Kind == KindExec:
		// Gate suites carry no fixtures.
		return nil, nil
	default:
		return nil, fmt.Errorf("suite %q: unknown kind %q", suite.Name, suite.Kind)
	}
}

// discoverCategorized walks suite/category/fixture. Entries that are not
// directories at the category level are ignored; inside a category every
// regular file is a fixture regardless of extension.
func (t Tree) discoverCategorized(suite Suite) ([]Fixture, error) {
	suiteDir := filepath.Join(t.Root, suite.Name)
	categories, err := os.ReadDir(suiteDir)
	if err != nil {
		return nil, fmt.Errorf("suite %q: %w", suite.Name, err)
	}

	var fixtures []Fixture
	for _, cat := range categories {
		if !cat.IsDir() {
			continue
		}
		catDir := filepath.Join(suiteDir, cat.Name())
		entries, err := os.ReadDir(catDir)
		if err != nil {
			return nil, fmt.Errorf("suite %q: category %q: %w", suite.Name, cat.Name(), err)
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			fixtures = append(fixtures, Fixture{
				Path:     filepath.Join(catDir, entry.Name()),
				Name:     cat.Name() + "/" + entry.Name(),
				Category: cat.Name(),
				Suite:    suite.Name,
			})
		}
	}
	return fixtures, nil
}

// discoverFlat lists source files directly under the suite directory.
// Only files with the corpus source extension count; golden siblings and
// stray artifacts stay invisible.
func (t Tree) discoverFlat(suite Suite) ([]Fixture, error) {
	suiteDir := filepath.Join(t.Root, suite.Name)
	entries, err := os.ReadDir(suiteDir)
	if err != nil {
		return nil, fmt.Errorf("suite %q: %w", suite.Name, err)
	}

	var fixtures []Fixture
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), t.SourceExt) {
			continue
		}
		fixtures = append(fixtures, Fixture{
			Path:     filepath.Join(suiteDir, entry.Name()),
			Name:     entry.Name(),
			Category: suite.Name,
			Suite:    suite.Name,
		})
	}
	return fixtures, nil
}

package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverCategorizedOrder(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "compile-fail", "zeta", "b.src"), "")
	writeFixture(t, filepath.Join(root, "compile-fail", "zeta", "a.src"), "")
	writeFixture(t, filepath.Join(root, "compile-fail", "alpha", "only.src"), "")

	tree := Tree{Root: root, SourceExt: ".src"}
	fixtures, err := tree.Discover(Suite{Name: "compile-fail", Kind: KindCompileFail})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	wantNames := []string{"alpha/only.src", "zeta/a.src", "zeta/b.src"}
	if len(fixtures) != len(wantNames) {
		t.Fatalf("got %d fixtures, want %d: %+v", len(fixtures), len(wantNames), fixtures)
	}
	for i, f := range fixtures {
		if f.Name != wantNames[i] {
			t.Errorf("fixture %d: name %q, want %q", i, f.Name, wantNames[i])
		}
		if f.Suite != "compile-fail" {
			t.Errorf("fixture %d: suite %q, want compile-fail", i, f.Suite)
		}
	}
	if fixtures[0].Category != "alpha" || fixtures[1].Category != "zeta" {
		t.Fatalf("unexpected categories: %+v", fixtures)
	}
	if fixtures[0].Path != filepath.Join(root, "compile-fail", "alpha", "only.src") {
		t.Fatalf("unexpected path: %q", fixtures[0].Path)
	}
}

func TestDiscoverCategorizedIgnoresStrayEntries(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "run-pass", "basic", "ok.src"), "")
	// Файл на уровне категорий и каталог внутри категории не являются фикстурами.
	writeFixture(t, filepath.Join(root, "run-pass", "README.md"), "notes")
	if err := os.MkdirAll(filepath.Join(root, "run-pass", "basic", "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tree := Tree{Root: root, SourceExt: ".src"}
	fixtures, err := tree.Discover(Suite{Name: "run-pass", Kind: KindRunPass})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(fixtures) != 1 || fixtures[0].Name != "basic/ok.src" {
		t.Fatalf("got %+v, want exactly basic/ok.src", fixtures)
	}
}

func TestDiscoverFlatFiltersExtension(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "ir", "loop.src"), "")
	writeFixture(t, filepath.Join(root, "ir", "loop.ir"), "")
	writeFixture(t, filepath.Join(root, "ir", "add.src"), "")
	writeFixture(t, filepath.Join(root, "ir", "notes.txt"), "")

	tree := Tree{Root: root, SourceExt: ".src"}
	suite := Suite{Name: "ir", Kind: KindEmit, Target: "ir", GoldenExt: ".ir"}
	fixtures, err := tree.Discover(suite)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	wantNames := []string{"add.src", "loop.src"}
	if len(fixtures) != len(wantNames) {
		t.Fatalf("got %d fixtures, want %d: %+v", len(fixtures), len(wantNames), fixtures)
	}
	for i, f := range fixtures {
		if f.Name != wantNames[i] {
			t.Errorf("fixture %d: name %q, want %q", i, f.Name, wantNames[i])
		}
	}

	golden := suite.GoldenFor(fixtures[1].Path)
	if golden != filepath.Join(root, "ir", "loop.ir") {
		t.Fatalf("golden path %q", golden)
	}
}

func TestDiscoverExecHasNoFixtures(t *testing.T) {
	tree := Tree{Root: t.TempDir(), SourceExt: ".src"}
	fixtures, err := tree.Discover(Suite{Name: "internal", Kind: KindExec, Command: []string{"true"}})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("exec suite produced fixtures: %+v", fixtures)
	}
}

func TestDiscoverMissingSuiteDir(t *testing.T) {
	tree := Tree{Root: t.TempDir(), SourceExt: ".src"}
	_, err := tree.Discover(Suite{Name: "compile-fail", Kind: KindCompileFail})
	if err == nil {
		t.Fatal("expected error for missing suite directory")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error %v, want fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "compile-fail") {
		t.Fatalf("error %q does not name the suite", err)
	}
}

func TestDiscoverUnknownKind(t *testing.T) {
	tree := Tree{Root: t.TempDir(), SourceExt: ".src"}
	_, err := tree.Discover(Suite{Name: "odd", Kind: Kind("mystery")})
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("error %v, want unknown kind", err)
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind        Kind
		valid       bool
		categorized bool
	}{
		{KindCompileFail, true, true},
		{KindRunPass, true, true},
		{KindEmit, true, false},
		{KindExec, true, false},
		{Kind("mystery"), false, false},
	}
	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.valid {
			t.Errorf("%q.Valid() = %v, want %v", tt.kind, got, tt.valid)
		}
		if got := tt.kind.Categorized(); got != tt.categorized {
			t.Errorf("%q.Categorized() = %v, want %v", tt.kind, got, tt.categorized)
		}
	}
}

func TestFixtureKey(t *testing.T) {
	f := Fixture{Suite: "compile-fail", Name: "borrowck/use-after-move.src"}
	if got := f.Key(); got != "compile-fail/borrowck/use-after-move.src" {
		t.Fatalf("Key() = %q", got)
	}
}

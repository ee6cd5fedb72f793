package corpus

import (
	"path/filepath"
	"strings"
)

// Kind selects the evaluation rules for a suite.
type Kind string

const (
	// KindCompileFail holds fixtures the compiler must reject, with the
	// expected diagnostics embedded as markers.
	KindCompileFail Kind = "compile-fail"
	// KindRunPass holds fixtures the compiler must accept without a single
	// diagnostic.
	KindRunPass Kind = "run-pass"
	// KindEmit holds fixtures whose compiler output is compared against a
	// golden sibling file.
	KindEmit Kind = "emit"
	// KindExec has no fixtures at all; the suite runs one external command
	// as a gate (the compiler's own unit tests, typically).
	KindExec Kind = "exec"
)

// Valid reports whether k names one of the known suite kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCompileFail, KindRunPass, KindEmit, KindExec:
		return true
	}
	return false
}

// Categorized reports whether fixtures live one category directory below
// the suite directory.
func (k Kind) Categorized() bool {
	return k == KindCompileFail || k == KindRunPass
}

// Suite describes one named group of fixtures sharing evaluation rules.
type Suite struct {
	Name      string
	Title     string   // human name for banners, e.g. "IR tests"
	Kind      Kind
	Target    string   // emit: value passed via the target-selection flag
	GoldenExt string   // emit: extension of the golden sibling, e.g. ".ir"
	Command   []string // exec: gate command argv
}

// Descr names the emitted artifact in comparison blocks, derived from
// the target: "ir" reads as "IR".
func (s Suite) Descr() string {
	if s.Target != "" {
		return strings.ToUpper(s.Target)
	}
	return strings.ToUpper(s.Name)
}

// GoldenFor returns the golden sibling path for an emit fixture: same
// directory, same stem, suite-specific extension.
func (s Suite) GoldenFor(fixturePath string) string {
	ext := filepath.Ext(fixturePath)
	return strings.TrimSuffix(fixturePath, ext) + s.GoldenExt
}

// Fixture is one source file of the corpus, created at discovery time and
// immutable afterwards. Whether the fixture is skipped is not stored here:
// the evaluator derives it from the text on every run.
type Fixture struct {
	Path     string // path to the source file
	Name     string // display name: "category/file" or the bare file name
	Category string // containing directory name
	Suite    string // owning suite name
}

// Key identifies the fixture across runs, for snapshots and regression
// comparison.
func (f Fixture) Key() string {
	return f.Suite + "/" + f.Name
}

// Package manifest loads gauntlet.toml: where the compiler binary
// lives, how to build it, and which suites to run in what order.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"gauntlet/internal/corpus"
)

// FileName is the manifest file gauntlet looks for.
const FileName = "gauntlet.toml"

// Manifest is the validated, path-resolved configuration of one
// project. All paths are absolute.
type Manifest struct {
	Path string // manifest file itself
	Root string // directory containing it; build and gate commands run here

	Binary        string   // compiler binary
	Build         []string // opaque build command, empty when none
	Args          []string // base args for every invocation
	CrashExitCode int
	Timeout       time.Duration // per fixture, 0 = no limit

	CorpusRoot string
	SourceExt  string

	Suites []corpus.Suite // document order is execution order
}

// Suite returns the named suite, if configured.
func (m *Manifest) Suite(name string) (corpus.Suite, bool) {
	for _, s := range m.Suites {
		if s.Name == name {
			return s, true
		}
	}
	return corpus.Suite{}, false
}

// Find walks from startDir to the filesystem root looking for the
// manifest. ok is false when no manifest exists on the way up.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type rawManifest struct {
	Compiler rawCompiler         `toml:"compiler"`
	Corpus   rawCorpus           `toml:"corpus"`
	Suites   map[string]rawSuite `toml:"suites"`
}

type rawCompiler struct {
	Binary        string   `toml:"binary"`
	Build         []string `toml:"build"`
	Args          []string `toml:"args"`
	CrashExitCode int      `toml:"crash_exit_code"`
	Timeout       duration `toml:"timeout"`
}

type rawCorpus struct {
	Root      string `toml:"root"`
	SourceExt string `toml:"source_ext"`
}

type rawSuite struct {
	Kind      string   `toml:"kind"`
	Title     string   `toml:"title"`
	Target    string   `toml:"target"`
	GoldenExt string   `toml:"golden_ext"`
	Command   []string `toml:"command"`
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var raw rawManifest
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if !meta.IsDefined("compiler") {
		return nil, fmt.Errorf("%s: missing [compiler]", path)
	}
	if !meta.IsDefined("compiler", "binary") || strings.TrimSpace(raw.Compiler.Binary) == "" {
		return nil, fmt.Errorf("%s: missing [compiler].binary", path)
	}
	if !meta.IsDefined("corpus") {
		return nil, fmt.Errorf("%s: missing [corpus]", path)
	}
	if !meta.IsDefined("corpus", "root") || strings.TrimSpace(raw.Corpus.Root) == "" {
		return nil, fmt.Errorf("%s: missing [corpus].root", path)
	}
	if !meta.IsDefined("corpus", "source_ext") || strings.TrimSpace(raw.Corpus.SourceExt) == "" {
		return nil, fmt.Errorf("%s: missing [corpus].source_ext", path)
	}
	if !strings.HasPrefix(raw.Corpus.SourceExt, ".") {
		return nil, fmt.Errorf("%s: [corpus].source_ext must start with a dot", path)
	}
	if len(raw.Suites) == 0 {
		return nil, fmt.Errorf("%s: no [suites.*] defined", path)
	}

	root := filepath.Dir(path)
	m := &Manifest{
		Path:          path,
		Root:          root,
		Binary:        resolveBinary(root, raw.Compiler.Binary),
		Build:         raw.Compiler.Build,
		Args:          raw.Compiler.Args,
		CrashExitCode: raw.Compiler.CrashExitCode,
		Timeout:       raw.Compiler.Timeout.Duration,
		CorpusRoot:    filepath.Join(root, filepath.FromSlash(raw.Corpus.Root)),
		SourceExt:     raw.Corpus.SourceExt,
	}
	if !meta.IsDefined("compiler", "crash_exit_code") {
		// Код паники родного компилятора; при другом рантайме задаётся явно.
		m.CrashExitCode = 101
	}

	for _, name := range suiteOrder(meta) {
		suite, err := buildSuite(path, name, raw.Suites[name], meta)
		if err != nil {
			return nil, err
		}
		m.Suites = append(m.Suites, suite)
	}
	return m, nil
}

// suiteOrder recovers the document order of [suites.*] tables, which
// map decoding loses.
func suiteOrder(meta toml.MetaData) []string {
	var names []string
	seen := map[string]bool{}
	for _, key := range meta.Keys() {
		if len(key) >= 2 && key[0] == "suites" && !seen[key[1]] {
			seen[key[1]] = true
			names = append(names, key[1])
		}
	}
	return names
}

func buildSuite(path, name string, raw rawSuite, meta toml.MetaData) (corpus.Suite, error) {
	kind := corpus.Kind(raw.Kind)
	if !kind.Valid() {
		return corpus.Suite{}, fmt.Errorf("%s: [suites.%s].kind %q is not one of compile-fail, run-pass, emit, exec", path, name, raw.Kind)
	}

	suite := corpus.Suite{
		Name:      name,
		Title:     raw.Title,
		Kind:      kind,
		Target:    raw.Target,
		GoldenExt: raw.GoldenExt,
		Command:   raw.Command,
	}
	if suite.Title == "" {
		suite.Title = name + " tests"
	}

	switch kind {
	case corpus.KindEmit:
		if suite.Target == "" {
			return corpus.Suite{}, fmt.Errorf("%s: [suites.%s] of kind emit needs target", path, name)
		}
		if suite.GoldenExt == "" {
			return corpus.Suite{}, fmt.Errorf("%s: [suites.%s] of kind emit needs golden_ext", path, name)
		}
		if !strings.HasPrefix(suite.GoldenExt, ".") {
			return corpus.Suite{}, fmt.Errorf("%s: [suites.%s].golden_ext must start with a dot", path, name)
		}
	case corpus.KindExec:
		if len(suite.Command) == 0 {
			return corpus.Suite{}, fmt.Errorf("%s: [suites.%s] of kind exec needs command", path, name)
		}
	default:
		if meta.IsDefined("suites", name, "command") {
			return corpus.Suite{}, fmt.Errorf("%s: [suites.%s].command is only for exec suites", path, name)
		}
		if meta.IsDefined("suites", name, "target") || meta.IsDefined("suites", name, "golden_ext") {
			return corpus.Suite{}, fmt.Errorf("%s: [suites.%s] target/golden_ext are only for emit suites", path, name)
		}
	}
	return suite, nil
}

// resolveBinary anchors a relative binary path at the manifest
// directory. On Windows the .exe suffix is implied.
func resolveBinary(root, binary string) string {
	path := filepath.FromSlash(binary)
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if runtime.GOOS == "windows" && filepath.Ext(path) == "" {
		path += ".exe"
	}
	return path
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new gauntlet project",
	Long: `Initialize a conformance harness project by creating a manifest
(gauntlet.toml) and a fixture corpus skeleton. If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit initializes a gauntlet project at the specified target path (or the
// current working directory when no argument or "." is provided) by creating a
// gauntlet.toml manifest, the corpus directory tree and one example fixture.
//
// It resolves the target path, creates the directory if it does not exist,
// derives a compiler name from the directory basename, and refuses to
// initialize if gauntlet.toml already exists. On success it writes the
// manifest and skeleton and prints the created files; it returns an error for
// any filesystem or validation failures.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine compiler name from directory basename
	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "compiler"
	}

	// Create manifest file if not exists
	manifestPath := filepath.Join(target, "gauntlet.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	manifest := buildDefaultManifest(name)
	if err := os.WriteFile(manifestPath, []byte(manifest), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Corpus skeleton with one example fixture
	examplePath := filepath.Join(target, "tests", "compile-fail", "example", "undefined.src")
	if err := os.MkdirAll(filepath.Dir(examplePath), 0o755); err != nil {
		return fmt.Errorf("failed to create corpus skeleton: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(target, "tests", "run-pass"), 0o755); err != nil {
		return fmt.Errorf("failed to create corpus skeleton: %w", err)
	}
	createdExample := false
	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(examplePath, []byte(defaultFixture()), 0o600); err != nil {
			return fmt.Errorf("failed to write example fixture: %w", err)
		}
		createdExample = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized gauntlet project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - gauntlet.toml\n")
	fmt.Fprintf(os.Stdout, "  - tests/run-pass/\n")
	if createdExample {
		fmt.Fprintf(os.Stdout, "  - tests/compile-fail/example/undefined.src\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - tests/compile-fail/example/undefined.src (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a starter TOML manifest wired for a debug build
// of the named compiler. The commented-out sections document the optional
// knobs: build command, emit suites, exec gates.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# Gauntlet harness manifest
[compiler]
binary = "target/debug/%s"
# build = ["cargo", "build"]       # opaque build command, run before the suites
args = []                          # base arguments for every invocation
crash_exit_code = 101              # exit code treated as a compiler crash
timeout = "30s"                    # per-fixture time limit, "0s" disables

[corpus]
root = "tests"
source_ext = ".src"

# Order of [suites.*] tables is execution order.

# [suites.internal]                # gate: abort the run when it fails
# kind = "exec"
# command = ["cargo", "test"]

[suites.compile-fail]
kind = "compile-fail"

[suites.run-pass]
kind = "run-pass"

# [suites.ir]
# kind = "emit"
# target = "ir"
# golden_ext = ".ir"
`, name)
}

// defaultFixture returns the example compile-fail fixture demonstrating the
// expectation annotations.
func defaultFixture() string {
	return `// Each expectation names one diagnostic the compiler must emit for
// this file. Positions are 1-based line:column. A line holding exactly
// "//! SKIP" disables the fixture without deleting it.
//! ERROR(7:5): unknown identifier

fn main() {
    frobnicate();
}
`
}

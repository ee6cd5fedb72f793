// Package main implements the gauntlet CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gauntlet/internal/corpus"
	"gauntlet/internal/harness"
	"gauntlet/internal/invoke"
	"gauntlet/internal/manifest"
	"gauntlet/internal/observ"
	"gauntlet/internal/snapshot"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [suite...]",
	Short: "Run conformance suites against the compiler",
	Long: `Run the configured suites over the fixture corpus and report every
divergence between expected and actual compiler behavior. With no arguments
every suite from gauntlet.toml runs, in manifest order; suite names select a
subset and accept both space- and comma-separated forms.`,
	Args: cobra.ArbitraryArgs,
	RunE: runExecution,
}

func init() {
	runCmd.Flags().String("manifest", "", "path to gauntlet.toml (default: search upwards from cwd)")
	runCmd.Flags().Int("jobs", 1, "concurrent compiler invocations within a suite")
	runCmd.Flags().Duration("timeout", 0, "per-fixture time limit (overrides the manifest)")
	runCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
	runCmd.Flags().Bool("timings", false, "print phase timings after the run")
	runCmd.Flags().Bool("bless", false, "rewrite golden files from current compiler output")
	runCmd.Flags().Bool("no-build", false, "skip the [compiler].build command")
}

const noManifestMessage = "no gauntlet.toml found\nplease run from inside a project or point --manifest at one, e.g.:\n  gauntlet run --manifest path/to/gauntlet.toml"

func runExecution(cmd *cobra.Command, args []string) error {
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	timeoutFlag, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	bless, err := cmd.Flags().GetBool("bless")
	if err != nil {
		return err
	}
	noBuild, err := cmd.Flags().GetBool("no-build")
	if err != nil {
		return err
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	m, err := resolveManifest(manifestPath)
	if err != nil {
		return err
	}
	suites, err := selectSuites(m, args)
	if err != nil {
		return err
	}

	timeout := m.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = timeoutFlag
	}

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	if len(m.Build) > 0 && !noBuild {
		idx := timer.Begin("build")
		if err := invoke.RunStream(cmd.Context(), m.Root, m.Build, "COLORED_OUTPUT=off"); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		timer.End(idx, strings.Join(m.Build, " "))
	}

	driver := &invoke.Compiler{
		Binary:   m.Binary,
		BaseArgs: m.Args,
		Dir:      m.CorpusRoot,
		Timeout:  timeout,
	}
	if needsCompiler(suites) {
		if err := driver.Probe(); err != nil {
			return err
		}
	}

	runner := &harness.Runner{
		Tree:      corpus.Tree{Root: m.CorpusRoot, SourceExt: m.SourceExt},
		Suites:    suites,
		Evaluator: &harness.Evaluator{Driver: driver, CrashExitCode: m.CrashExitCode, Bless: bless},
		GateDir:   m.Root,
		GateEnv:   []string{"COLORED_OUTPUT=off"},
		Jobs:      jobs,
		Timer:     timer,
	}

	session := &harness.Session{}
	if shouldUseTUI(uiModeValue) && !quiet {
		err = runSuitesWithUI(cmd.Context(), runner, session, suites)
	} else {
		if !quiet {
			runner.Sink = newConsoleSink(os.Stdout, useColor, jobs > 1)
		}
		err = runner.Run(cmd.Context(), session)
	}
	if err != nil {
		return err
	}

	report, ok := session.Render(harness.ReportOpts{Color: useColor})
	fmt.Fprint(os.Stdout, report)

	if err := recordSnapshot(m.Root, session, useColor); err != nil {
		// Снимок это удобство, а не вердикт: прогон он не валит.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if showTimings {
		fmt.Fprint(os.Stdout, timer.Summary())
	}

	if !ok {
		// Suppress cobra usage output: the report is the error message
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func resolveManifest(explicit string) (*manifest.Manifest, error) {
	if explicit != "" {
		return manifest.Load(explicit)
	}
	path, found, err := manifest.Find(".")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New(noManifestMessage)
	}
	return manifest.Load(path)
}

// selectSuites maps command-line suite names onto manifest suites. The
// manifest defines the execution order; the arguments only pick the
// subset, whatever order they come in.
func selectSuites(m *manifest.Manifest, args []string) ([]corpus.Suite, error) {
	wanted := map[string]bool{}
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := m.Suite(name); !ok {
				return nil, fmt.Errorf("unknown suite %q (defined: %s)", name, suiteNames(m))
			}
			wanted[name] = true
		}
	}
	if len(wanted) == 0 {
		return m.Suites, nil
	}
	var suites []corpus.Suite
	for _, s := range m.Suites {
		if wanted[s.Name] {
			suites = append(suites, s)
		}
	}
	return suites, nil
}

func suiteNames(m *manifest.Manifest) string {
	names := make([]string, 0, len(m.Suites))
	for _, s := range m.Suites {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func needsCompiler(suites []corpus.Suite) bool {
	for _, s := range suites {
		if s.Kind != corpus.KindExec {
			return true
		}
	}
	return false
}

// recordSnapshot prints status flips against the previous run and
// persists the current one.
func recordSnapshot(projectRoot string, session *harness.Session, useColor bool) error {
	store, err := snapshot.Open(projectRoot)
	if err != nil {
		return err
	}
	prev, found, err := store.Load()
	if err != nil {
		return err
	}

	outcomes := session.Outcomes()
	entries := make([]snapshot.Entry, 0, len(outcomes))
	for _, o := range outcomes {
		entries = append(entries, snapshot.Entry{
			Key:    o.Fixture.Key(),
			Status: string(o.Verdict.Status),
			Reason: o.Verdict.Reason,
		})
	}
	passed, failed, skipped := session.Counts()
	cur := snapshot.NewRun(passed, failed, skipped, entries)

	if found {
		printSnapshotDiff(os.Stdout, snapshot.Compare(prev, cur), useColor)
	}
	return store.Save(cur)
}

func printSnapshotDiff(out io.Writer, diff snapshot.Diff, useColor bool) {
	if diff.Empty() {
		return
	}
	pal := newConsolePalette(useColor)
	if len(diff.NewlyFailing) > 0 {
		fmt.Fprintf(out, "%s\n", pal.red.Sprint("regressed since last run:"))
		for _, key := range diff.NewlyFailing {
			fmt.Fprintf(out, "   %s\n", key)
		}
	}
	if len(diff.NewlyPassing) > 0 {
		fmt.Fprintf(out, "%s\n", pal.green.Sprint("fixed since last run:"))
		for _, key := range diff.NewlyPassing {
			fmt.Fprintf(out, "   %s\n", key)
		}
	}
}

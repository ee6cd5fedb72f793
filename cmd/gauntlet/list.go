package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gauntlet/internal/corpus"
)

var listCmd = &cobra.Command{
	Use:   "list [flags] [suite...]",
	Short: "List the fixtures a run would evaluate",
	Long:  `Discover the corpus without invoking the compiler and print what each selected suite would run.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  listExecution,
}

func init() {
	listCmd.Flags().String("manifest", "", "path to gauntlet.toml (default: search upwards from cwd)")
}

func listExecution(cmd *cobra.Command, args []string) error {
	manifestPath, err := cmd.Flags().GetString("manifest")
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

	tree := corpus.Tree{Root: m.CorpusRoot, SourceExt: m.SourceExt}
	for _, suite := range suites {
		if suite.Kind == corpus.KindExec {
			fmt.Fprintf(os.Stdout, "%s: %s\n", suite.Name, strings.Join(suite.Command, " "))
			continue
		}
		fixtures, err := tree.Discover(suite)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %d fixtures\n", suite.Name, len(fixtures))
		for _, fx := range fixtures {
			fmt.Fprintf(os.Stdout, "  %s\n", fx.Name)
		}
	}
	return nil
}

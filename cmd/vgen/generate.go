package main

import (
	"fmt"
	"io"

	"ruleforge/vgen/pkg/cli"
	"ruleforge/vgen/pkg/engine"

	"github.com/spf13/cobra"
)

var generateFlags struct {
	noCache bool
	check   bool
}

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate validation code",
	Long: `Generate validation code for every annotated input under the given paths.

Directories are searched recursively for Go files containing the validate
directive and for *.vgen.yaml descriptors. Each input produces one
<name>_vgen.go file next to it. Inputs that have not changed since the last
run are skipped using the cache.

A file that fails to generate keeps its previous output; the command exits
non-zero after processing every file.

Examples:
  # Generate for the current directory tree
  vgen generate

  # Generate for selected packages, ignoring the cache
  vgen generate --no-cache ./internal/users ./internal/orders

  # Verify generated files are up to date without writing
  vgen generate --check .`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&generateFlags.noCache, "no-cache", false, "regenerate every input")
	generateCmd.Flags().BoolVar(&generateFlags.check, "check", false, "report out-of-date outputs without writing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, appOptions{noCache: generateFlags.noCache})
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	mode := engine.ModeGenerate
	if generateFlags.check {
		mode = engine.ModeCheck
	}

	report, err := a.engine.Run(cmd.Context(), mode, args)
	if err != nil {
		return cli.NewCommandError("generate", err)
	}

	printReport(cmd.OutOrStdout(), report)

	if err := report.Err(); err != nil {
		return cli.NewCommandError("generate", err)
	}
	if stale := report.Count(engine.StatusStale); stale > 0 {
		return cli.NewCommandError("generate", fmt.Errorf("%d generated file(s) out of date; run vgen generate", stale))
	}
	return nil
}

func printReport(w io.Writer, report *engine.Report) {
	for _, f := range report.Files {
		switch f.Status {
		case engine.StatusGenerated:
			fmt.Fprintf(w, "✓ %s -> %s (%d record(s))\n", f.Input, f.Output, f.Records)
		case engine.StatusRemoved:
			fmt.Fprintf(w, "- %s removed (no records left in %s)\n", f.Output, f.Input)
		case engine.StatusStale:
			fmt.Fprintf(w, "! %s is out of date\n", f.Output)
		case engine.StatusFailed:
			fmt.Fprintf(w, "✗ %s\n%v\n", f.Input, f.Err)
		}
	}

	fmt.Fprintf(w, "\n%d file(s): %d generated, %d unchanged, %d failed\n",
		len(report.Files),
		report.Count(engine.StatusGenerated),
		report.Count(engine.StatusUnchanged),
		report.Failed(),
	)
}

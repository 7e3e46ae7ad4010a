package main

import (
	"errors"
	"fmt"
	"io"

	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/cli"
	"ruleforge/vgen/pkg/engine"

	"github.com/spf13/cobra"
)

var lintFlags struct {
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Check annotations without writing",
	Long: `Parse, aggregate and generate every input in memory and report problems.

Errors are anything that would make vgen generate fail: malformed
annotations, duplicate validators, unsupported field shapes. Warnings flag
invocations of validators from a known package (such as the bundled rules
package) that it does not declare, or that are written with the wrong
generic form.

Examples:
  # Lint the current directory tree
  vgen lint

  # Strict mode (warnings as errors)
  vgen lint --strict ./internal

  # JSON output for CI/CD
  vgen lint --format json .`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the lint outcome for one input.
type LintResult struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Records  int         `json:"records"`
	Errors   []LintIssue `json:"errors,omitempty"`
	Warnings []LintIssue `json:"warnings,omitempty"`
}

// LintIssue is a single error or warning.
type LintIssue struct {
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Type     string `json:"type,omitempty"`
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, appOptions{noCache: true})
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	report, err := a.engine.Run(cmd.Context(), engine.ModeLint, args)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	var results []LintResult
	totalErrors, totalWarnings := 0, 0
	for _, f := range report.Files {
		if f.Status == engine.StatusNoRecords {
			continue
		}
		r := lintResult(f)
		totalErrors += len(r.Errors)
		totalWarnings += len(r.Warnings)
		results = append(results, r)
	}

	if format == cli.FormatJSON {
		if results == nil {
			results = []LintResult{}
		}
		if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		printLint(cmd.OutOrStdout(), results, totalErrors, totalWarnings)
	}

	if totalErrors > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed with %d error(s)", totalErrors))
	}
	if lintFlags.strict && totalWarnings > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("strict mode: %d warning(s)", totalWarnings))
	}
	return nil
}

func lintResult(f engine.FileResult) LintResult {
	r := LintResult{File: f.Input, Records: f.Records, Valid: f.Err == nil}
	for _, w := range f.Warnings {
		r.Warnings = append(r.Warnings, LintIssue{
			Line:     w.Location.Line,
			Column:   w.Location.Column,
			Message:  w.Message,
			Severity: "warning",
		})
	}
	if f.Err == nil {
		return r
	}

	var list *vgenerrors.ErrorList
	var single *vgenerrors.Error
	switch {
	case errors.As(f.Err, &list):
		for _, e := range list.Errors {
			r.Errors = append(r.Errors, issue(e))
		}
	case errors.As(f.Err, &single):
		r.Errors = append(r.Errors, issue(single))
	default:
		r.Errors = append(r.Errors, LintIssue{Message: f.Err.Error(), Severity: "error"})
	}
	return r
}

func issue(e *vgenerrors.Error) LintIssue {
	return LintIssue{
		Line:     e.Location.Line,
		Column:   e.Location.Column,
		Message:  e.Message,
		Severity: "error",
		Type:     string(e.Type),
	}
}

func printLint(w io.Writer, results []LintResult, totalErrors, totalWarnings int) {
	for _, r := range results {
		fmt.Fprintf(w, "Checking %s...\n", r.File)
		if len(r.Errors) == 0 && len(r.Warnings) == 0 {
			fmt.Fprintf(w, "✓ %d record(s) valid\n", r.Records)
		}
		for _, e := range r.Errors {
			fmt.Fprintf(w, "✗ Error: %s%s", e.Message, position(e))
			if e.Type != "" {
				fmt.Fprintf(w, " [%s]", e.Type)
			}
			fmt.Fprintln(w)
		}
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "⚠  Warning: %s%s\n", warn.Message, position(warn))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)
	if lintFlags.strict && totalWarnings > 0 {
		fmt.Fprintln(w, "  Strict mode enabled: treating warnings as errors")
	}
}

func position(i LintIssue) string {
	switch {
	case i.Line > 0 && i.Column > 0:
		return fmt.Sprintf(" (line %d, col %d)", i.Line, i.Column)
	case i.Line > 0:
		return fmt.Sprintf(" (line %d)", i.Line)
	default:
		return ""
	}
}

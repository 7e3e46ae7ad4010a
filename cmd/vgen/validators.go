package main

import (
	"fmt"
	"text/tabwriter"

	"ruleforge/vgen/pkg/cli"

	"github.com/spf13/cobra"
)

var validatorsFlags struct {
	format string
}

var validatorsCmd = &cobra.Command{
	Use:   "validators",
	Short: "List the known validators",
	Long: `List the validators in the catalog: the bundled rules package.

Generic validators take their type parameter from the annotation, usually
inferred with ::<_>.`,
	Args: cobra.NoArgs,
	RunE: runValidators,
}

func init() {
	rootCmd.AddCommand(validatorsCmd)

	validatorsCmd.Flags().StringVar(&validatorsFlags.format, "format", "text", "output format: text, json")
}

func runValidators(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(validatorsFlags.format)
	if err != nil {
		return err
	}
	cat, err := newCatalog()
	if err != nil {
		return err
	}

	entries := cat.Entries()
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), entries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGENERIC\tPACKAGE\tDESCRIPTION")
	for _, e := range entries {
		generic := "no"
		if e.Generic {
			generic = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, generic, e.Path, e.Description)
	}
	return tw.Flush()
}

package main

import (
	"fmt"
	"os"

	"ruleforge/vgen/pkg/cli"
	"ruleforge/vgen/pkg/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vgen",
	Short: "vgen - validation code generator for Go structs",
	Long: `vgen reads validation annotations on Go structs (or *.vgen.yaml
descriptors) and generates the validation code for them: per-field error
types, an aggregate error type, a Validate method and optional checked
constructors.

Annotations name validator types, for example:

  Name string ` + "`vgen:\"rules.Len::<_>(Min = 1, Max = 50)\"`" + `

where ::<_> infers the validator's type parameter from the field.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

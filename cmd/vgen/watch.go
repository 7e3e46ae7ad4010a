package main

import (
	"ruleforge/vgen/pkg/cli"
	"ruleforge/vgen/pkg/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Regenerate inputs as they change",
	Long: `Generate once, then watch the given paths and regenerate inputs when they
change. Outputs of deleted inputs are removed.

The watch section of the configuration sets the debounce interval, an
optional cron schedule for periodic full regeneration, and an optional
address serving /metrics, /healthz and /readyz.

Examples:
  # Watch the current directory tree
  vgen watch

  # Serve metrics while watching
  VGEN_WATCH_METRICS_ADDRESS=:9090 vgen watch ./internal`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	runner, err := watch.NewRunner(watch.RunnerOptions{
		Engine:  a.engine,
		Config:  a.cfg.Watch,
		Paths:   args,
		Logger:  a.logger,
		Metrics: a.metrics,
	})
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

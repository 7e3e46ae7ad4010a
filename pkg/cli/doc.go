/*
Package cli provides helpers shared by the vgen commands.

Output Formatting:

Commands that report results support text and JSON output:

	format, err := cli.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report)

Exit Codes:

ExitCode maps a command error to the process exit status: 0 on success,
2 for configuration errors and 1 for everything else.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli

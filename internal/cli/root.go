// Package cli implements the htmlconf command line interface.
//
// Commands:
//
//	run      execute fixture suites against the parsing engine
//	list     count discovered fixture files (and cases with --cases)
//	show     print one decoded tree-construction case
//	smoke    validate that every fixture decodes, without running anything
//	history  list recorded runs from a results database
//
// Exit codes: 0 all passed, 1 at least one failure, 2 command error.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the htmlconf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "htmlconf",
		Short: "html5lib conformance harness",
		Long: `htmlconf runs the externally authored html5lib-tests fixture corpus
against an HTML parsing engine and reports pass/fail statistics with
bounded failure detail.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSmokeCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// Execute runs the root command and translates the error into a process
// exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		slog.Error(err.Error())
		return GetExitCode(err)
	}
	return ExitSuccess
}

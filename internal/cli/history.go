package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/htmlconf/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs from a results database",
		Long: `List past suite runs recorded with run --db, newest first. With
--run, print the recorded failure triples of one run instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite results database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "print failures of this run id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	st, err := store.Open(expandTilde(opts.Database))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open results database", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if opts.RunID != "" {
		failures, err := st.RunFailures(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run failures", err)
		}
		for _, f := range failures {
			fmt.Fprintf(out, "- %s case=%d mode=%s\n", f.File, f.CaseIndex, f.Label)
		}
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %-17s %d/%d passed (%d failed)\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Suite, r.Passed, r.Total, r.Failed)
	}
	return nil
}

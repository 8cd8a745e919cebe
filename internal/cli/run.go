package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/htmlconf/internal/parser"
	"github.com/roach88/htmlconf/internal/runner"
	"github.com/roach88/htmlconf/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Tests       string
	Tree        bool
	Tokenizer   bool
	Serializer  bool
	All         bool
	Threads     int
	MaxFailures int
	FailFast    bool
	Filter      string
	ConfigPath  string
	Database    string
	JSON        bool

	// EngineFactory allows tests to substitute the parsing engine.
	// Defaults to the unimplemented placeholder.
	EngineFactory func() parser.Engine
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run fixture suites against the parsing engine",
		Long: `Run html5lib fixture suites and report pass/fail statistics.

With no suite flag, the tree-construction suite runs. Failure detail is
capped by --max-failures; failures past the cap still count toward totals.

Example:
  htmlconf run --tests ~/html5lib-tests --threads 8 --max-failures 50
  htmlconf run --all --fail-fast --db ./runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tests, "tests", "", "html5lib-tests checkout root (default ~/html5lib-tests)")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "run the tree-construction suite")
	cmd.Flags().BoolVar(&opts.Tokenizer, "tokenizer", false, "run the tokenizer suite")
	cmd.Flags().BoolVar(&opts.Serializer, "serializer", false, "run the serializer suite")
	cmd.Flags().BoolVar(&opts.All, "all", false, "run every suite")
	cmd.Flags().IntVar(&opts.Threads, "threads", 0, "worker count (default one per CPU)")
	cmd.Flags().IntVar(&opts.MaxFailures, "max-failures", 20, "failure detail cap (minimum 1)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop after the first failure")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only fixture files containing this substring")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (flags win over file values)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to record this run into")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "emit a machine-readable JSON report instead of text")

	return cmd
}

// resolveRunConfig merges the config file under explicitly set flags and
// applies defaults and clamps.
func resolveRunConfig(cmd *cobra.Command, opts *RunOptions) (runner.Config, error) {
	if opts.ConfigPath != "" {
		file, err := LoadFileConfig(expandTilde(opts.ConfigPath))
		if err != nil {
			return runner.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		flags := cmd.Flags()
		if !flags.Changed("tests") && file.Tests != "" {
			opts.Tests = file.Tests
		}
		if !flags.Changed("threads") && file.Threads > 0 {
			opts.Threads = file.Threads
		}
		if !flags.Changed("max-failures") && file.MaxFailures > 0 {
			opts.MaxFailures = file.MaxFailures
		}
		if !flags.Changed("fail-fast") {
			opts.FailFast = opts.FailFast || file.FailFast
		}
		if !flags.Changed("filter") && file.Filter != "" {
			opts.Filter = file.Filter
		}
		if !flags.Changed("db") && file.DB != "" {
			opts.Database = file.DB
		}
	}

	tests := opts.Tests
	if tests == "" {
		tests = defaultTestsRoot()
	}
	threads := opts.Threads
	if threads < 1 {
		threads = defaultThreads()
	}
	maxFailures := opts.MaxFailures
	if maxFailures < 1 {
		maxFailures = 1
	}

	return runner.Config{
		TestsRoot:   expandTilde(tests),
		Workers:     threads,
		MaxFailures: maxFailures,
		FailFast:    opts.FailFast,
		Filter:      opts.Filter,
	}, nil
}

func runSuites(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := resolveRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	runTree := opts.Tree || opts.All
	runTokenizer := opts.Tokenizer || opts.All
	runSerializer := opts.Serializer || opts.All
	if !runTree && !runTokenizer && !runSerializer {
		runTree = true
	}

	eng := parser.Engine(parser.Unimplemented{})
	if opts.EngineFactory != nil {
		eng = opts.EngineFactory()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(expandTilde(opts.Database))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open results database", err)
		}
		defer st.Close()
	}

	report := newReportPrinter(cmd.OutOrStdout())
	anyFailed := false
	var allFailures []runner.Failure
	var jsonOut runReport

	type suite struct {
		name    string
		enabled bool
		run     func(context.Context) (runner.Summary, error)
	}
	suites := []suite{
		{"tree-construction", runTree, func(ctx context.Context) (runner.Summary, error) {
			return runner.RunTreeSuite(ctx, eng, cfg)
		}},
		{"tokenizer", runTokenizer, func(ctx context.Context) (runner.Summary, error) {
			return runner.RunTokenizerSuite(ctx, cfg)
		}},
		{"serializer", runSerializer, func(ctx context.Context) (runner.Summary, error) {
			return runner.RunSerializerSuite(ctx, cfg)
		}},
	}

	for _, s := range suites {
		if !s.enabled {
			continue
		}
		summary, err := s.run(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to run "+s.name+" suite", err)
		}
		if opts.JSON {
			jsonOut.Suites = append(jsonOut.Suites, suiteReport{
				Name:   s.name,
				Total:  summary.Total,
				Passed: summary.Passed,
				Failed: summary.Failed,
			})
		} else {
			report.Suite(s.name, summary)
		}
		anyFailed = anyFailed || summary.Failed > 0
		allFailures = append(allFailures, summary.Failures...)

		if st != nil {
			runID, err := st.RecordRun(ctx, s.name, summary)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to record run", err)
			}
			slog.Info("recorded run", "suite", s.name, "run_id", runID)
		}
	}

	if len(allFailures) > cfg.MaxFailures {
		allFailures = allFailures[:cfg.MaxFailures]
	}
	if opts.JSON {
		jsonOut.Failures = toFailureReports(allFailures)
		if err := writeJSONReport(cmd.OutOrStdout(), jsonOut); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
	} else {
		report.Failures(allFailures, cfg.MaxFailures)
	}

	if anyFailed {
		return NewExitError(ExitFailure, "one or more suites recorded failures")
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/htmlconf/internal/fixture"
)

// SmokeOptions holds flags for the smoke command.
type SmokeOptions struct {
	*RootOptions
	Tests string
}

// NewSmokeCommand creates the smoke command.
func NewSmokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SmokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Validate that every fixture decodes",
		Long: `Decode every discovered fixture without executing any cases. Useful
after updating the html5lib-tests checkout: decode problems surface here
instead of as confusing failure records in a run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return smoke(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tests, "tests", "", "html5lib-tests checkout root (default ~/html5lib-tests)")

	return cmd
}

func smoke(cmd *cobra.Command, opts *SmokeOptions) error {
	root := opts.Tests
	if root == "" {
		root = defaultTestsRoot()
	}
	root = expandTilde(root)
	out := cmd.OutOrStdout()
	ok := true

	treeFiles, err := fixture.DiscoverTreeFiles(root)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover tree-construction fixtures", err)
	}
	for _, path := range treeFiles {
		if _, err := fixture.DecodeTreeFile(path); err != nil {
			ok = false
			fmt.Fprintf(out, "tree-construction decode error: %s: %v\n", path, err)
		}
	}

	for _, group := range []struct {
		name     string
		discover func(string) ([]string, error)
	}{
		{"tokenizer", fixture.DiscoverTokenizerFiles},
		{"serializer", fixture.DiscoverSerializerFiles},
	} {
		files, err := group.discover(root)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to discover "+group.name+" fixtures", err)
		}
		for _, path := range files {
			if _, err := fixture.DecodeFile(path); err != nil {
				ok = false
				fmt.Fprintf(out, "%s decode error: %s: %v\n", group.name, path, err)
			}
		}
	}

	if !ok {
		return NewExitError(ExitFailure, "fixture decode errors found")
	}
	fmt.Fprintln(out, "all fixtures decode cleanly")
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/htmlconf/internal/fixture"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Tests string
	Cases bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered fixture files",
		Long: `List the fixture files discovered under the tests root, per suite.
With --cases, also decode each file and print its case count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFixtures(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tests, "tests", "", "html5lib-tests checkout root (default ~/html5lib-tests)")
	cmd.Flags().BoolVar(&opts.Cases, "cases", false, "decode files and print per-file case counts")

	return cmd
}

func listFixtures(cmd *cobra.Command, opts *ListOptions) error {
	root := opts.Tests
	if root == "" {
		root = defaultTestsRoot()
	}
	root = expandTilde(root)
	out := cmd.OutOrStdout()

	treeFiles, err := fixture.DiscoverTreeFiles(root)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover tree-construction fixtures", err)
	}
	tokFiles, err := fixture.DiscoverTokenizerFiles(root)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover tokenizer fixtures", err)
	}
	serFiles, err := fixture.DiscoverSerializerFiles(root)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover serializer fixtures", err)
	}

	if !opts.Cases {
		fmt.Fprintf(out, "tree-construction files: %d\n", len(treeFiles))
		fmt.Fprintf(out, "tokenizer files: %d\n", len(tokFiles))
		fmt.Fprintf(out, "serializer files: %d\n", len(serFiles))
		return nil
	}

	fmt.Fprintln(out, "tree-construction:")
	for _, path := range treeFiles {
		cases, err := fixture.DecodeTreeFile(path)
		if err != nil {
			fmt.Fprintf(out, "  %s: (error: %v)\n", path, err)
			continue
		}
		fmt.Fprintf(out, "  %s: %d cases\n", path, len(cases))
	}

	for _, group := range []struct {
		name  string
		files []string
	}{{"tokenizer", tokFiles}, {"serializer", serFiles}} {
		fmt.Fprintf(out, "%s:\n", group.name)
		for _, path := range group.files {
			fmt.Fprintf(out, "  %s: %d tests\n", path, countJSONTests(path))
		}
	}
	return nil
}

// countJSONTests returns the length of a fixture's tests array, or 0 when
// the file is unreadable or malformed.
func countJSONTests(path string) int {
	doc, err := fixture.DecodeFile(path)
	if err != nil {
		return 0
	}
	obj, ok := doc.(fixture.Object)
	if !ok {
		return 0
	}
	return len(obj.GetArray("tests"))
}

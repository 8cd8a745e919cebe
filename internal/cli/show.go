package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/htmlconf/internal/fixture"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Tests string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <file> <case-index>",
		Short: "Print one decoded tree-construction case",
		Long: `Decode a .dat fixture and print the case at the given index: its
script directive, fragment context, raw input, and expected canonical tree.

Relative paths resolve against the tests root.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 0 {
				return NewExitError(ExitCommandError, "case index must be a non-negative integer")
			}
			return showCase(cmd, opts, args[0], index)
		},
	}

	cmd.Flags().StringVar(&opts.Tests, "tests", "", "html5lib-tests checkout root (default ~/html5lib-tests)")

	return cmd
}

func showCase(cmd *cobra.Command, opts *ShowOptions, file string, index int) error {
	path := expandTilde(file)
	if !filepath.IsAbs(path) {
		root := opts.Tests
		if root == "" {
			root = defaultTestsRoot()
		}
		path = filepath.Join(expandTilde(root), path)
	}

	cases, err := fixture.DecodeTreeFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode "+path, err)
	}
	if index >= len(cases) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("case index out of range (%d cases)", len(cases)))
	}
	c := cases[index]

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file: %s\n", file)
	fmt.Fprintf(out, "case: %d\n", index)
	fmt.Fprintf(out, "script: %s\n", c.Script)
	if c.Fragment != nil {
		fmt.Fprintf(out, "fragment: ns=%q tag=%s\n", c.Fragment.Namespace, c.Fragment.TagName)
	} else {
		fmt.Fprintln(out, "fragment: (none)")
	}
	fmt.Fprintf(out, "errors: %d\n", c.ErrorCount)
	fmt.Fprintf(out, "\n#data\n%s\n\n#document\n%s\n", c.Data, c.Expected)
	return nil
}

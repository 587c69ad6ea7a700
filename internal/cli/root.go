package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgen/pkg/fsys"
	"github.com/matzehuels/stackgen/pkg/paths"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

func (c *CLI) rootCommand() *cobra.Command {
	var resolve []string

	cmd := &cobra.Command{
		Use:   "root [dir]",
		Short: "Print the workspace root that dir resolves against",
		Long: `Print the nearest ancestor of dir holding a .git or Stackgen directory.

With --resolve, also print how manifest path strings would resolve from dir.
A leading "//" makes a path root-relative.`,
		Example: `  stackgen root App --resolve //Shared --resolve Sources`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(workspaceDir(args))
			if err != nil {
				return err
			}
			locator := rootdir.New(fsys.OS{})
			out := cmd.OutOrStdout()

			root, ok := locator.Locate(dir)
			if ok {
				fmt.Fprintln(out, root)
			} else if len(resolve) == 0 {
				return &paths.RootDirectoryNotFoundError{Path: dir}
			}

			ctx := paths.NewContext(dir, locator)
			for _, s := range resolve {
				expr := paths.ManifestRelative(s)
				if rest, found := strings.CutPrefix(s, "//"); found {
					expr = paths.RootRelative(rest)
				}
				resolved, err := ctx.Resolve(expr)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %s\n", s, StyleDim.Render(iconArrow), resolved)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&resolve, "resolve", nil, "path string to resolve (repeatable)")
	return cmd
}

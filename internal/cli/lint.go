package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgen/pkg/lint"
	"github.com/matzehuels/stackgen/pkg/pipeline"
)

// errLintFailed is returned when lint finds errors, so the exit status is
// non-zero without printing the findings twice.
var errLintFailed = errors.New("lint found errors")

func (c *CLI) lintCommand() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "lint [dir]",
		Short: "Check the manifests below dir for suspicious declarations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, pipeline.Options{Dir: workspaceDir(args)})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				issues := res.Issues
				if issues == nil {
					issues = []lint.Issue{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(issues); err != nil {
					return err
				}
			} else {
				printIssues(out, res.Issues)
			}

			warnings, errs := lint.Count(res.Issues)
			if !asJSON {
				if warnings+errs == 0 {
					printSuccess(out, "No issues in %d targets", res.Stats.Nodes)
				} else {
					printDetail(out, "%d errors, %d warnings", errs, warnings)
				}
			}
			if errs > 0 || (strict && warnings > 0) {
				return errLintFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print issues as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

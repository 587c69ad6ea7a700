package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgen/internal/api"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		workspace string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolution pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			s, err := api.New(runner, workspace, c.Logger)
			if err != nil {
				return err
			}
			return s.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVar(&workspace, "workspace", ".", "directory request paths are confined to")
	return cmd
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgen/pkg/cache"
	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/pipeline"
)

// Output formats of the graph command.
const (
	formatOrder  = "order"
	formatJSON   = "json"
	formatReport = "report"
	formatDOT    = "dot"
	formatSVG    = "svg"
)

var graphFormats = []string{formatOrder, formatJSON, formatReport, formatDOT, formatSVG}

type graphOpts struct {
	format      string
	output      string
	toolVersion string
	refresh     bool
	skipLint    bool
	reduce      bool
	detailed    bool
	target      string
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatOrder}

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Resolve the manifests below dir into a dependency graph",
		Long: `Resolve every Project.hcl below dir and print the target graph.

Formats:
  order   targets in build order, dependencies first
  json    the canonical graph document
  report  graph, merged configuration, lint issues and timings
  dot     Graphviz source
  svg     rendered diagram

With --target, the order format lists only what that target needs, followed
by the target itself. The target is named as printed by the order format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(graphFormats, opts.format) {
				return fmt.Errorf("unknown format %q (want one of %v)", opts.format, graphFormats)
			}
			if opts.target != "" && opts.format != formatOrder {
				return fmt.Errorf("--target only applies to the %s format", formatOrder)
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), workspaceDir(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: order, json, report, dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&opts.toolVersion, "tool-version", "", "fail unless every target accepts this tool version")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.skipLint, "skip-lint", false, "skip manifest lint rules")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "drop transitive edges in dot and svg output")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show product and bundle id in dot and svg output")
	cmd.Flags().StringVar(&opts.target, "target", "", "only print the build order for this target")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, stdout, stderr io.Writer, dir string, opts graphOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, stderr, "Resolving manifests...")
	if opts.output != "" {
		spin.Start()
	}
	// Cached results carry no graph to walk, so --target always rebuilds.
	res, err := runner.Execute(ctx, pipeline.Options{
		Dir:         dir,
		ToolVersion: opts.toolVersion,
		Refresh:     opts.refresh || opts.target != "",
		SkipLint:    opts.skipLint,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	data, err := c.formatGraph(ctx, runner, res, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(stderr, "Resolved %d targets", res.Stats.Nodes)
	printStats(stderr, res.Stats, res.CacheHit)
	printFile(stderr, opts.output)
	return nil
}

func (c *CLI) formatGraph(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, opts graphOpts) ([]byte, error) {
	doc := res.Document
	var buf bytes.Buffer
	switch opts.format {
	case formatOrder:
		order := doc.Order
		if opts.target != "" {
			var err error
			if order, err = targetOrder(res, opts.target); err != nil {
				return nil, err
			}
		}
		for _, id := range order {
			fmt.Fprintln(&buf, displayID(res.Root, id))
		}
		return buf.Bytes(), nil
	case formatJSON:
		err := graph.WriteDocument(doc, &buf)
		return buf.Bytes(), err
	case formatReport:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err := enc.Encode(res)
		return buf.Bytes(), err
	}

	dotOpts := graph.DOTOptions{Detailed: opts.detailed, Reduce: opts.reduce}
	key := cache.ArtifactKeyOpts{Format: opts.format, Reduce: opts.reduce, Detailed: opts.detailed}
	data, hit, err := runner.Artifact(ctx, doc, key, func() ([]byte, error) {
		dot := graph.ToDOT(doc, dotOpts)
		if opts.format == formatDOT {
			return []byte(dot), nil
		}
		return graph.RenderSVG(ctx, dot)
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("artifact", "format", opts.format, "cached", hit, "bytes", len(data))
	return data, nil
}

// targetOrder returns the build order of name's transitive dependencies
// followed by name itself.
func targetOrder(res *pipeline.Result, name string) ([]graph.NodeID, error) {
	for _, id := range res.Graph.NodeIDs() {
		if displayID(res.Root, id) == name || id.String() == name {
			return append(res.Graph.TransitiveDependencies(id), id), nil
		}
	}
	return nil, serrors.New(serrors.ErrCodeInvalidInput, "unknown target %q", name)
}

// displayID shortens a node's project path to be relative to root.
func displayID(root string, id graph.NodeID) string {
	if root == "" {
		return id.String()
	}
	rel, err := filepath.Rel(root, id.Project)
	if err != nil {
		return id.String()
	}
	return graph.NodeID{Project: filepath.ToSlash(rel), Target: id.Target}.String()
}

package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackgen/pkg/dag"
	"github.com/matzehuels/stackgen/pkg/dag/transform"
)

// DOTOptions configures node-link rendering.
type DOTOptions struct {
	// Detailed adds the product and external dependencies to node labels.
	// When false, only the target name is shown.
	Detailed bool

	// Reduce drops edges implied by longer paths before rendering.
	Reduce bool
}

// ToDOT converts a document to Graphviz DOT. Targets are grouped into one
// cluster per project. The result can be rendered with [RenderSVG].
func ToDOT(doc Document, opts DOTOptions) string {
	edges := doc.Edges
	if opts.Reduce {
		edges = reducedEdges(doc)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	var projects []string
	byProject := make(map[string][]DocumentNode)
	for _, n := range doc.Nodes {
		if _, seen := byProject[n.ID.Project]; !seen {
			projects = append(projects, n.ID.Project)
		}
		byProject[n.ID.Project] = append(byProject[n.ID.Project], n)
	}

	for i, p := range projects {
		nodes := byProject[p]
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", nodes[0].ProjectName)
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID.String(), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n DocumentNode, detailed bool) []string {
	label := n.ID.Target
	if detailed {
		parts := []string{label, string(n.Product)}
		for _, ext := range n.External {
			parts = append(parts, fmt.Sprintf("%s: %s", ext.Kind, ext.Reference()))
		}
		label = strings.Join(parts, "\n")
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Product.IsRunnable() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

func reducedEdges(doc Document) []DocumentEdge {
	d := dag.New()
	for _, n := range doc.Nodes {
		_ = d.AddNode(dag.Node{ID: n.ID.String()})
	}
	for _, e := range doc.Edges {
		_ = d.AddEdge(dag.Edge{From: e.From.String(), To: e.To.String(), Meta: dag.Metadata{"edge": e}})
	}
	transform.TransitiveReduction(d)

	out := make([]DocumentEdge, 0, d.EdgeCount())
	for _, e := range d.Edges() {
		out = append(out, e.Meta["edge"].(DocumentEdge))
	}
	return out
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Package render converts computed layouts to visual artifacts.
//
// # Overview
//
// This package produces Graphviz DOT source with every node pinned at its
// computed position, then renders it in-process to SVG or PNG. The layout
// engine already decided all positions, so Graphviz runs as a pure drawing
// backend (neato with pinned coordinates) rather than as a layout engine.
//
// # Usage
//
// Convert a layout to DOT, or render it directly:
//
//	dot, err := render.DOT(layout)
//	svg, err := render.Image(ctx, layout, render.FormatSVG)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rondel-viz/rondel/pkg/graph"
)

// pointsPerInch converts pixel coordinates to the inch-based size attributes
// Graphviz expects. Positions stay in points.
const pointsPerInch = 72.0

// clusterPalette is cycled to give each cluster a distinct fill color.
var clusterPalette = []string{
	"#a6cee3", "#b2df8a", "#fb9a99", "#fdbf6f",
	"#cab2d6", "#ffff99", "#1f78b4", "#33a02c",
}

// DOT converts a layout to Graphviz DOT format with pinned node positions.
// Nodes keep their computed coordinates (pos="x,y!" with layout=neato), and
// cluster members share a fill color. The vertical axis is flipped because
// layout coordinates grow downward while Graphviz coordinates grow upward.
func DOT(l graph.Layout) ([]byte, error) {
	pos := l.PositionIndex()

	clusterOf := make(map[string]int)
	for ci, group := range l.Graph.Clusters {
		for _, id := range group {
			clusterOf[id] = ci
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [color=\"#666666\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Graph.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			return nil, fmt.Errorf("no position for node %q", n.ID)
		}
		cx := p.X + n.Width/2
		cy := -(p.Y + n.Height/2)

		attrs := []string{
			fmt.Sprintf("label=%q", n.DisplayLabel()),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
			fmt.Sprintf("width=%.3f", n.Width/pointsPerInch),
			fmt.Sprintf("height=%.3f", n.Height/pointsPerInch),
			"fixedsize=true",
		}
		if ci, ok := clusterOf[n.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", clusterPalette[ci%len(clusterPalette)]))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Graph.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/rondel-viz/rondel/pkg/graph"
)

// Format selects the image output format.
type Format string

// Supported image formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Image renders a layout to the given image format using Graphviz.
// Node positions are pinned, so Graphviz only draws.
func Image(ctx context.Context, l graph.Layout, format Format) ([]byte, error) {
	dot, err := DOT(l)
	if err != nil {
		return nil, err
	}
	return RenderDOT(ctx, dot, format)
}

// RenderDOT renders DOT source to the given image format using Graphviz.
func RenderDOT(ctx context.Context, dot []byte, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported image format: %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

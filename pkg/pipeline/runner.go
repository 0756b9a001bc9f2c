package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rondel-viz/rondel/pkg/cache"
	"github.com/rondel-viz/rondel/pkg/cgraph"
	"github.com/rondel-viz/rondel/pkg/cise"
	"github.com/rondel-viz/rondel/pkg/graph"
	"github.com/rondel-viz/rondel/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.Stats.ClusterCount = len(g.Clusters)

	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("loaded graph",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"clusters", len(g.Clusters),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, stats, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.LayoutStats = stats
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"positions", len(layout.Positions),
		"reversals", stats.Reversals,
		"swaps", stats.Swaps,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the input graph.
func (r *Runner) Load(ctx context.Context, opts Options) (graph.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return graph.Graph{}, err
	}
	return graph.ReadGraphFile(opts.Input)
}

// ComputeLayout runs the layout engine on a loaded graph without caching.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, cise.Stats, error) {
	if err := opts.SetLayoutDefaults(); err != nil {
		return graph.Layout{}, cise.Stats{}, err
	}
	r.applyLogger(&opts)

	specs := make([]cgraph.NodeSpec, len(g.Nodes))
	for i, n := range g.Nodes {
		specs[i] = cgraph.NodeSpec{ID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
	}
	edges := make([]cgraph.EdgeSpec, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = cgraph.EdgeSpec{Source: e.Source, Target: e.Target}
	}

	cg, err := cgraph.Build(cgraph.Input{
		Nodes:    specs,
		Edges:    edges,
		Clusters: g.Clusters,
	})
	if err != nil {
		return graph.Layout{}, cise.Stats{}, err
	}

	engine, err := cise.New(cg, opts.engineOptions())
	if err != nil {
		return graph.Layout{}, cise.Stats{}, err
	}
	stats, err := engine.Run()
	if err != nil {
		return graph.Layout{}, cise.Stats{}, err
	}

	positions := make([]graph.Position, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		cn := cg.Node(n.ID)
		if cn == nil {
			return graph.Layout{}, cise.Stats{}, fmt.Errorf("node %q missing from layout", n.ID)
		}
		positions = append(positions, graph.Position{ID: n.ID, X: cn.Rect.X, Y: cn.Rect.Y})
	}

	return graph.Layout{Graph: g, Positions: positions}, stats, nil
}

// LayoutWithCacheInfo computes the layout, consulting the cache first.
// Engine statistics are only populated on a cache miss.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g graph.Graph, graphHash string, opts Options) (graph.Layout, cise.Stats, bool, error) {
	if err := opts.SetLayoutDefaults(); err != nil {
		return graph.Layout{}, cise.Stats{}, false, err
	}
	key := r.Keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{
		NodeSeparation:   opts.NodeSeparation,
		ClusterInflation: opts.ClusterInflation,
		IdealEdgeLength:  opts.IdealEdgeLength,
		SpringConstant:   opts.SpringConstant,
		CircularForce:    opts.CircularForce,
		FlipIterations:   opts.FlipIterations,
		SwapIterations:   opts.SwapIterations,
		SettleIterations: opts.SettleIterations,
		SkipReorder:      opts.SkipReorder,
		Seed:             opts.Seed,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if layout, err := graph.UnmarshalLayout(data); err == nil {
				r.Logger.Debug("layout cache hit", "key", key)
				return layout, cise.Stats{}, true, nil
			}
			// Corrupt entry, fall through and recompute
			_ = r.Cache.Delete(ctx, key)
		}
	}

	layout, stats, err := r.ComputeLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, cise.Stats{}, false, err
	}

	if data, err := graph.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, key, data, DefaultTTL); err != nil {
			r.Logger.Warn("failed to cache layout", "error", err)
		}
	}

	return layout, stats, false, nil
}

// RenderWithCacheInfo renders all requested formats, consulting the cache
// per format. The bool result is true only when every artifact came from
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(layout)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true

	for _, format := range opts.Formats {
		// JSON is just the layout itself, never cached separately.
		if format == FormatJSON {
			artifacts[format] = layoutData
			continue
		}

		key := r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := r.renderFormat(ctx, layout, format)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, DefaultTTL); err != nil {
			r.Logger.Warn("failed to cache artifact", "format", format, "error", err)
		}
	}

	return artifacts, allHit, nil
}

// renderFormat produces one artifact for the given format.
func (r *Runner) renderFormat(ctx context.Context, layout graph.Layout, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return render.DOT(layout)
	case FormatSVG:
		return render.Image(ctx, layout, render.FormatSVG)
	case FormatPNG:
		return render.Image(ctx, layout, render.FormatPNG)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// applyLogger ensures opts carries the runner's logger when none was set by
// the caller.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == log.Default() {
		opts.Logger = r.Logger
	}
}

// Package pipeline provides the core layout pipeline for Rondel.
//
// This package implements the complete load → layout → render pipeline used
// by the CLI and by library callers. Centralizing this logic keeps behavior
// consistent across entry points and avoids duplicating the caching rules.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a clustered graph from JSON
//  2. Layout: Compute circular per-cluster positions for the graph
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "graph.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	g, err := runner.Load(ctx, opts)
//
//	// Layout with an existing graph
//	layout, err := runner.ComputeLayout(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rondel-viz/rondel/pkg/cise"
	"github.com/rondel-viz/rondel/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Callers
// =============================================================================

const (
	// DefaultTTL is how long cached layouts and artifacts are kept.
	// Layout output is deterministic for a given graph and option set, so
	// entries never go stale; the TTL only bounds disk usage over time.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = int64(42)
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for config files.
type Options struct {
	// Load options
	Input   string `json:"input,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	NodeSeparation   float64 `json:"node_separation,omitempty"`
	ClusterInflation float64 `json:"cluster_inflation,omitempty"`
	IdealEdgeLength  float64 `json:"ideal_edge_length,omitempty"`
	SpringConstant   float64 `json:"spring_constant,omitempty"`
	CircularForce    float64 `json:"circular_force,omitempty"`
	FlipIterations   int     `json:"flip_iterations,omitempty"`
	SwapIterations   int     `json:"swap_iterations,omitempty"`
	SettleIterations int     `json:"settle_iterations,omitempty"`
	SkipReorder      bool    `json:"skip_reorder,omitempty"`
	Seed             int64   `json:"seed,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger              `json:"-"`
	Progress func(cise.ProgressEvent) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded input graph.
	Graph graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed positions.
	Layout graph.Layout

	// LayoutStats contains engine statistics from the layout run.
	LayoutStats cise.Stats

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ClusterCount int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.SetLayoutDefaults(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return fmt.Errorf("input is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults fills in layout defaults and rejects negative tunables.
func (o *Options) SetLayoutDefaults() error {
	if o.NodeSeparation < 0 || o.ClusterInflation < 0 || o.IdealEdgeLength < 0 ||
		o.SpringConstant < 0 || o.CircularForce < 0 {
		return fmt.Errorf("layout parameters must not be negative")
	}
	if o.FlipIterations < 0 || o.SwapIterations < 0 || o.SettleIterations < 0 {
		return fmt.Errorf("iteration counts must not be negative")
	}
	if o.NodeSeparation == 0 {
		o.NodeSeparation = cise.DefaultNodeSeparation
	}
	if o.ClusterInflation == 0 {
		o.ClusterInflation = cise.DefaultClusterInflation
	}
	if o.IdealEdgeLength == 0 {
		o.IdealEdgeLength = cise.DefaultIdealEdgeLength
	}
	if o.SpringConstant == 0 {
		o.SpringConstant = cise.DefaultSpringConstant
	}
	if o.CircularForce == 0 {
		o.CircularForce = cise.DefaultCircularForce
	}
	if o.FlipIterations == 0 {
		o.FlipIterations = cise.DefaultFlipIterations
	}
	if o.SwapIterations == 0 {
		o.SwapIterations = cise.DefaultSwapIterations
	}
	if o.SettleIterations == 0 {
		o.SettleIterations = cise.DefaultSettleIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
}

// engineOptions converts pipeline options to engine options.
func (o *Options) engineOptions() cise.Options {
	return cise.Options{
		NodeSeparation:   o.NodeSeparation,
		ClusterInflation: o.ClusterInflation,
		IdealEdgeLength:  o.IdealEdgeLength,
		SpringConstant:   o.SpringConstant,
		CircularForce:    o.CircularForce,
		FlipIterations:   o.FlipIterations,
		SwapIterations:   o.SwapIterations,
		SettleIterations: o.SettleIterations,
		SkipReorder:      o.SkipReorder,
		Seed:             uint64(o.Seed),
		Logger:           o.Logger,
		Progress:         o.Progress,
	}
}

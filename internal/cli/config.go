package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/rondel-viz/rondel/pkg/pipeline"
)

// configFile is the on-disk TOML configuration format. All fields are
// optional; zero values defer to pipeline defaults.
//
// Example rondel.toml:
//
//	[layout]
//	node_separation = 16.0
//	ideal_edge_length = 80.0
//	seed = 7
//
//	[render]
//	formats = ["svg", "png"]
type configFile struct {
	Layout layoutConfig `toml:"layout"`
	Render renderConfig `toml:"render"`
}

type layoutConfig struct {
	NodeSeparation   float64 `toml:"node_separation"`
	ClusterInflation float64 `toml:"cluster_inflation"`
	IdealEdgeLength  float64 `toml:"ideal_edge_length"`
	SpringConstant   float64 `toml:"spring_constant"`
	CircularForce    float64 `toml:"circular_force"`
	FlipIterations   int     `toml:"flip_iterations"`
	SwapIterations   int     `toml:"swap_iterations"`
	SettleIterations int     `toml:"settle_iterations"`
	SkipReorder      bool    `toml:"skip_reorder"`
	Seed             int64   `toml:"seed"`
}

type renderConfig struct {
	Formats []string `toml:"formats"`
}

// loadConfig reads a TOML config file and applies its non-zero values onto
// opts. Flag values set by the user still win; the caller applies the config
// before binding flags overrides.
func loadConfig(path string, opts *pipeline.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg configFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	applyConfig(cfg, opts)
	return nil
}

func applyConfig(cfg configFile, opts *pipeline.Options) {
	l := cfg.Layout
	if l.NodeSeparation != 0 {
		opts.NodeSeparation = l.NodeSeparation
	}
	if l.ClusterInflation != 0 {
		opts.ClusterInflation = l.ClusterInflation
	}
	if l.IdealEdgeLength != 0 {
		opts.IdealEdgeLength = l.IdealEdgeLength
	}
	if l.SpringConstant != 0 {
		opts.SpringConstant = l.SpringConstant
	}
	if l.CircularForce != 0 {
		opts.CircularForce = l.CircularForce
	}
	if l.FlipIterations != 0 {
		opts.FlipIterations = l.FlipIterations
	}
	if l.SwapIterations != 0 {
		opts.SwapIterations = l.SwapIterations
	}
	if l.SettleIterations != 0 {
		opts.SettleIterations = l.SettleIterations
	}
	if l.SkipReorder {
		opts.SkipReorder = true
	}
	if l.Seed != 0 {
		opts.Seed = l.Seed
	}
	if len(cfg.Render.Formats) != 0 {
		opts.Formats = cfg.Render.Formats
	}
}

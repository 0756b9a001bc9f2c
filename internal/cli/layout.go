package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rondel-viz/rondel/pkg/cache"
	"github.com/rondel-viz/rondel/pkg/graph"
	"github.com/rondel-viz/rondel/pkg/pipeline"
)

// layoutCommand creates the layout command for computing circular layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
		showTUI    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a clustered circular layout from a graph",
		Long: `Compute a clustered circular layout from a graph.

The layout command takes a graph.json file and computes positions for every
node: cluster members are placed on circles, circles are positioned by a
spring embedder, and iterative refinement untangles inter-cluster edges.
The output is a layout.json file that can be rendered with 'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				saved := opts
				if err := loadConfig(configPath, &opts); err != nil {
					return err
				}
				restoreFlagged(cmd, &opts, saved)
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, showTUI)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file with layout parameters")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&showTUI, "progress", false, "show interactive refinement progress")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	cmd.Flags().Float64Var(&opts.NodeSeparation, "node-separation", 0, "clearance between neighbors on a circle")
	cmd.Flags().Float64Var(&opts.ClusterInflation, "cluster-inflation", 0, "placeholder size multiplier during placement")
	cmd.Flags().Float64Var(&opts.IdealEdgeLength, "ideal-edge-length", 0, "rest length of inter-cluster springs")
	cmd.Flags().Float64Var(&opts.SpringConstant, "spring-constant", 0, "spring attraction strength")
	cmd.Flags().Float64Var(&opts.CircularForce, "circular-force", 0, "tangential pull on out-nodes during refinement")
	cmd.Flags().IntVar(&opts.FlipIterations, "flip-iterations", 0, "iteration budget for the reversal stage")
	cmd.Flags().IntVar(&opts.SwapIterations, "swap-iterations", 0, "iteration budget for the swap stage")
	cmd.Flags().IntVar(&opts.SettleIterations, "settle-iterations", 0, "iteration budget for the settle stage")
	cmd.Flags().BoolVar(&opts.SkipReorder, "skip-reorder", false, "skip incident-edge reordering")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible layouts")

	return cmd
}

// restoreFlagged re-applies option values that were set explicitly on the
// command line, so a config file cannot override them.
func restoreFlagged(cmd *cobra.Command, opts *pipeline.Options, saved pipeline.Options) {
	for name, restore := range map[string]func(){
		"node-separation":   func() { opts.NodeSeparation = saved.NodeSeparation },
		"cluster-inflation": func() { opts.ClusterInflation = saved.ClusterInflation },
		"ideal-edge-length": func() { opts.IdealEdgeLength = saved.IdealEdgeLength },
		"spring-constant":   func() { opts.SpringConstant = saved.SpringConstant },
		"circular-force":    func() { opts.CircularForce = saved.CircularForce },
		"flip-iterations":   func() { opts.FlipIterations = saved.FlipIterations },
		"swap-iterations":   func() { opts.SwapIterations = saved.SwapIterations },
		"settle-iterations": func() { opts.SettleIterations = saved.SettleIterations },
		"skip-reorder":      func() { opts.SkipReorder = saved.SkipReorder },
		"seed":              func() { opts.Seed = saved.Seed },
	} {
		if cmd.Flags().Changed(name) {
			restore()
		}
	}
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, showTUI bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer func() { _ = runner.Close() }()

	opts.Logger = c.Logger

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return err
	}
	graphHash := cache.Hash(graphData)

	var layout graph.Layout
	var cacheHit bool
	if showTUI {
		layout, cacheHit, err = c.runLayoutTUI(ctx, runner, g, graphHash, opts)
	} else {
		spinner := newSpinnerWithContext(ctx, "Computing circular layout...")
		spinner.Start()
		layout, _, cacheHit, err = runner.LayoutWithCacheInfo(ctx, g, graphHash, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), len(g.Clusters), cacheHit)
	printNewline()
	printNextStep("Render", "rondel visualize "+outputPath)

	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rondel-viz/rondel/pkg/pipeline"
)

// renderCommand creates the render command, the one-shot path from a graph
// file to visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		configPath string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Compute layout and render in one step",
		Long: `Compute layout and render in one step.

The render command runs the full pipeline: load the graph, compute the
clustered circular layout, and render the requested formats. It is the
shortcut for 'layout' followed by 'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formatsStr)
			if configPath != "" {
				saved := opts
				if err := loadConfig(configPath, &opts); err != nil {
					return err
				}
				restoreFlagged(cmd, &opts, saved)
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file with layout parameters")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible layouts")

	return cmd
}

// runRender executes the complete pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer func() { _ = runner.Close() }()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing and rendering layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(result.Artifacts, opts.Formats, opts.Input, output, result.CacheInfo.RenderHit); err != nil {
		return err
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.ClusterCount, result.CacheInfo.LayoutHit)
	return nil
}

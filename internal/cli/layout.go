package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a lineage graph",
		Long: `Compute node positions for a lineage graph.

The layout command takes a lineage graph JSON file and computes pixel
coordinates for every node. The output is a layout.json file (same format as
'render -f json') describing node boxes and edge paths.

Layouts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height in pixels")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	ctx = withLogger(ctx, c.Logger)
	track := newProgress(loggerFromContext(ctx))

	g, err := lineage.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.SetLayoutDefaults()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l := runner.ComputeLayout(ctx, g, opts)
	data, err := pipeline.MarshalLayout(pipeline.Snapshot(l))
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("encode layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	track.done(fmt.Sprintf("Laid out %d nodes", g.NodeCount()))
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNewline()
	printNextStep("Render", "lineascope render "+input)

	return nil
}

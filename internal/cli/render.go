package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineascope/lineascope/pkg/pipeline"
)

// renderCommand creates the render command for generating lineage artifacts.
//
// The input may be a lineage graph JSON file or, with --sql, a SQL file that
// is sent to the configured extraction service first.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		fromSQL    bool
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a lineage graph to SVG, DOT, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Theme != "" {
				if err := pipeline.ValidateTheme(opts.Theme); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], opts, output, fromSQL, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple), '-' for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height in pixels")
	cmd.Flags().BoolVar(&fromSQL, "sql", false, "treat the input file as SQL and extract lineage first")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "SQL dialect hint for extraction")
	cmd.Flags().StringVar(&opts.Model, "model", "", "extraction model hint")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached results and recompute")

	return cmd
}

// runRender reads the input, runs the full pipeline, and writes one artifact
// per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, fromSQL, noCache bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input %s: %w", input, err)
	}

	if fromSQL || strings.EqualFold(filepath.Ext(input), ".sql") {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		extractor, err := c.newExtractor(cfg)
		if err != nil {
			return err
		}
		if extractor == nil {
			return fmt.Errorf("SQL input requires an extraction service; set extract.url in the config file or %s", "LINEASCOPE_EXTRACT_URL")
		}
		opts.SQL = string(data)
		opts.Extractor = extractor
	} else {
		opts.GraphJSON = data
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering lineage...")
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

	toStdout := output == "-"
	base := basePath(output, input)
	for _, format := range opts.Formats {
		artifact, ok := result.Artifacts[format]
		if !ok {
			continue
		}

		path := output
		if toStdout {
			path = ""
		} else if path == "" || len(opts.Formats) > 1 {
			path = base + "." + format
		}

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(artifact); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", format, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
		if path != "" {
			printFile(path)
		}
	}

	if !toStdout {
		printSuccess("Render complete")
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	}
	return nil
}

// validArtifactExts is the set of format extensions stripped by basePath.
var validArtifactExts = map[string]bool{
	pipeline.FormatSVG:  true,
	pipeline.FormatDOT:  true,
	pipeline.FormatJSON: true,
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output already
// carries a format extension, that extension is stripped so per-format
// suffixes can be appended.
func basePath(output, input string) string {
	if output == "" || output == "-" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validArtifactExts[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps a writer with a no-op Close for stdout output.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return f, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/casetree/pkg/config"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/pipeline"
)

// renderCommand creates the render command for drawing transmission chains.
//
// Every flag doubles as a config key, so
//
//	casetree render cases.csv -f png,json --seed 7
//
// is equivalent to running casetree render with format = "png,json" and
// seed = 7 in casetree.toml.
func (c *CLI) renderCommand() *cobra.Command {
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render transmission clusters to PNG, SVG, JSON or DOT",
		Long: `Render reads a case table and draws each transmission cluster against
calendar time. Index cases sit on the bottom row and every later
generation one row higher.

The first output is written to --output; additional formats reuse its
base name with their own extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	addInputFlags(cmd)
	f := cmd.Flags()
	f.StringP(config.KeyOutput, "o", d[config.KeyOutput].(string), "output file (base name for multiple formats)")
	f.StringP(config.KeyFormat, "f", d[config.KeyFormat].(string), "output formats: png, svg, json, dot (comma-separated)")
	f.StringP(config.KeyType, "t", d[config.KeyType].(string), "visualization type: chart or nodelink")
	f.Bool(config.KeyMarkers, true, "draw case markers")
	f.Bool(config.KeyLabels, false, "label nodes with their case id (nodelink)")
	f.String(config.KeyTitle, d[config.KeyTitle].(string), "plot title")
	f.String(config.KeyYLabel, d[config.KeyYLabel].(string), "y-axis label")
	f.Int(config.KeyWidth, pipeline.DefaultWidth, "image width in pixels")
	f.Int(config.KeyHeight, pipeline.DefaultHeight, "image height in pixels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, cfg *config.Config) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if err := apperrors.ValidateOutputPath(cfg.Output); err != nil {
		return err
	}

	opts := cfg.PipelineOptions()
	opts.Logger = logger

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(cfg.Output, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", cfg.Input))

	printSuccess(w, "Rendered %d cases in %d clusters", result.Stats.NodeCount, result.Stats.ClusterCount)
	for _, p := range paths {
		printFile(w, p)
	}
	return nil
}

// writeArtifacts writes each rendered format next to output and returns
// the written paths in format order.
func writeArtifacts(output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	base := basePath(output)
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath strips a known format extension from output.
// Unknown extensions are kept, so "plot.v2" becomes "plot.v2.png".
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.ToLower(strings.TrimPrefix(ext, "."))] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

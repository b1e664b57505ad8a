package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/layout"
	"github.com/matzehuels/casetree/pkg/palette"
	"github.com/matzehuels/casetree/pkg/render/chart"
	"github.com/matzehuels/casetree/pkg/render/nodelink"
	"github.com/matzehuels/casetree/pkg/render/sink"
)

// RenderFormats generates output artifacts in the requested formats.
// Image formats follow opts.VizType; json and dot are the same for both.
// An empty layout fails with NO_DATA whatever the formats.
func RenderFormats(ctx context.Context, l *layout.Layout, g *dag.DAG, colors *palette.Assignment, opts Options) (map[string][]byte, error) {
	if l == nil || l.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoData, "no cases to render")
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = sink.RenderJSON(l, g, colors,
				sink.WithJSONSeed(opts.Seed),
				sink.WithJSONPalette(opts.Palette),
				sink.WithJSONTitle(opts.Title))
		case FormatDOT:
			if dot == "" {
				dot = nodelink.ToDOT(l, g, colors, nodelinkOptions(opts))
			}
			data = []byte(dot)
		case FormatPNG, FormatSVG:
			if opts.IsNodelink() {
				if dot == "" {
					dot = nodelink.ToDOT(l, g, colors, nodelinkOptions(opts))
				}
				data, err = renderNodelink(ctx, dot, format)
			} else {
				data, err = chart.Render(l, g, colors, format, chartOptions(opts))
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderNodelink(ctx context.Context, dot, format string) ([]byte, error) {
	if format == FormatSVG {
		return nodelink.RenderSVG(ctx, dot)
	}
	return nodelink.RenderPNG(ctx, dot)
}

func chartOptions(opts Options) chart.Options {
	return chart.Options{
		Title:   opts.Title,
		YLabel:  opts.YLabel,
		Width:   opts.Width,
		Height:  opts.Height,
		Markers: !opts.HideMarkers,
	}
}

func nodelinkOptions(opts Options) nodelink.Options {
	o := nodelink.DefaultOptions()
	o.Labels = opts.Labels
	return o
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/casetree/pkg/dag"
	casesio "github.com/matzehuels/casetree/pkg/io"
	"github.com/matzehuels/casetree/pkg/layout"
	"github.com/matzehuels/casetree/pkg/observability"
	"github.com/matzehuels/casetree/pkg/palette"
)

// Runner executes pipeline stages and reports them to the logger and the
// registered observability hooks.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → build → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result, err := r.Analyze(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result.Layout, result.Graph, result.Colors, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze runs every stage except rendering.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.Logger.Debug("pipeline options", "opts", opts.String())

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	records, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RecordCount = len(records)

	r.Logger.Info("loaded cases",
		"records", len(records),
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	buildStart := time.Now()
	g, err := r.Build(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.ClusterCount = len(g.Roots())
	result.Stats.InferredRoots = countSynthetic(g)

	r.Logger.Info("built transmission forest",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"clusters", result.Stats.ClusterCount,
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Layout
	layoutStart := time.Now()
	l, colors, err := r.Layout(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Colors = colors
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.MaxGeneration = l.MaxGeneration()

	r.Logger.Info("computed layout",
		"generations", l.MaxGeneration(),
		"colors", colors.Len(),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Load reads the configured case table.
func (r *Runner) Load(ctx context.Context, opts Options) ([]casesio.Record, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)

	start := time.Now()
	records, err := casesio.Import(ctx, opts.Input, opts.ImportOptions())
	hooks.OnLoadComplete(ctx, opts.Input, len(records), time.Since(start), err)
	return records, err
}

// Build converts records into a validated transmission forest.
func (r *Runner) Build(ctx context.Context, records []casesio.Record, opts Options) (*dag.DAG, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	observability.Pipeline().OnBuildStart(ctx, len(records))

	start := time.Now()
	g, err := dag.Build(records, opts.BuildOptions())
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	if synthetic := countSynthetic(g); synthetic > 0 {
		r.Logger.Warn("inserted index cases for unknown sources", "count", synthetic)
	}
	return g, nil
}

// Layout places every case and assigns attribute colours.
func (r *Runner) Layout(ctx context.Context, g *dag.DAG, opts Options) (*layout.Layout, *palette.Assignment, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())

	start := time.Now()
	l, err := layout.Compute(g, layout.WithSeed(opts.Seed))
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, nil, err
	}
	mode, _ := palette.ParseMode(opts.Palette)
	colors := palette.Assign(g, palette.WithMode(mode), palette.WithSeed(opts.Seed))
	hooks.OnLayoutComplete(ctx, l.MaxGeneration(), time.Since(start), nil)
	return l, colors, nil
}

// Render generates artifacts in every requested format.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, g *dag.DAG, colors *palette.Assignment, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.VizType, opts.Formats)

	start := time.Now()
	artifacts, err := RenderFormats(ctx, l, g, colors, opts)
	hooks.OnRenderComplete(ctx, opts.VizType, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func countSynthetic(g *dag.DAG) int {
	n := 0
	for _, root := range g.Roots() {
		if root.Synthetic {
			n++
		}
	}
	return n
}

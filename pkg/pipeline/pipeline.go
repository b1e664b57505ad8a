// Package pipeline provides the core visualization pipeline for casetree.
//
// This package implements the complete load → build → layout → render
// pipeline. The CLI uses it for both the render and stats commands so that
// defaults and validation live in one place.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read the case table (CSV, TSV, JSON or SQLite)
//  2. Build: Convert records into a validated transmission forest
//  3. Layout: Place cases on the time/generation plane and assign colours
//  4. Render: Generate output in the requested formats (PNG, SVG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:   "cluster_network.csv",
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Stop after layout, for example to print statistics:
//
//	result, err := runner.Analyze(ctx, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
	casesio "github.com/matzehuels/casetree/pkg/io"
	"github.com/matzehuels/casetree/pkg/layout"
	"github.com/matzehuels/casetree/pkg/palette"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultInput is the case table read when no file is given.
	DefaultInput = "cluster_network.csv"

	// DefaultOutput is the output path of the first format.
	DefaultOutput = "casetree.png"

	// DefaultTitle is the plot title.
	DefaultTitle = "MERS-CoV clusters"

	// DefaultYLabel is the y-axis label.
	DefaultYLabel = "Generations"

	// DefaultWidth is the default image width in pixels.
	DefaultWidth = 1200

	// DefaultHeight is the default image height in pixels.
	DefaultHeight = 800

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed

	// DefaultPalette is the default colour assignment mode.
	DefaultPalette = "sorted"

	// DefaultDangling is the default dangling-source policy.
	DefaultDangling = "reject"
)

// Visualization types.
const (
	VizTypeChart    = "chart"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeChart

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeChart:    true,
	VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
type Options struct {
	// Load options
	Input       string          `json:"input"`
	InputFormat string          `json:"input_format,omitempty"` // Overrides extension detection
	Table       string          `json:"table,omitempty"`        // SQLite table
	Columns     casesio.Columns `json:"columns"`

	// Build options
	Dangling        string `json:"dangling,omitempty"`
	ExcludeIsolated bool   `json:"exclude_isolated,omitempty"`

	// Layout options
	Seed    uint64 `json:"seed,omitempty"`
	SeedSet bool   `json:"-"` // Seed is explicit; zero is kept instead of defaulted
	Palette string `json:"palette,omitempty"`

	// Render options
	VizType     string   `json:"viz_type,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Title       string   `json:"title,omitempty"`
	YLabel      string   `json:"ylabel,omitempty"`
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	HideMarkers bool     `json:"hide_markers,omitempty"` // Draw edges only
	Labels      bool     `json:"labels,omitempty"`       // Case IDs in node-link diagrams

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the transmission forest.
	Graph *dag.DAG

	// Layout holds case positions and generations.
	Layout *layout.Layout

	// Colors maps attribute values to colours.
	Colors *palette.Assignment

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount   int
	NodeCount     int
	EdgeCount     int
	ClusterCount  int
	InferredRoots int // Synthetic index cases created for unknown sources
	MaxGeneration int
	LoadTime      time.Duration
	BuildTime     time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, json, dot)", format)
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

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return apperrors.New(apperrors.ErrCodeInvalidOption, "invalid viz_type: %q (must be one of: chart, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks and defaults the input options.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		o.Input = DefaultInput
	}
	if o.Columns == (casesio.Columns{}) {
		o.Columns = casesio.DefaultColumns()
	}
	if err := o.Columns.Validate(); err != nil {
		return err
	}
	if o.Table == "" {
		o.Table = casesio.DefaultTable
	}
	if err := apperrors.ValidateTableName(o.Table); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForBuild checks the graph construction options.
func (o *Options) ValidateForBuild() error {
	if o.Dangling == "" {
		o.Dangling = DefaultDangling
	}
	_, err := dag.ParseDanglingPolicy(o.Dangling)
	return err
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Seed == 0 && !o.SeedSet {
		o.Seed = DefaultSeed
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	_, err := palette.ParseMode(o.Palette)
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.YLabel == "" {
		o.YLabel = DefaultYLabel
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidOption, "image size must be positive, got %dx%d", o.Width, o.Height)
	}
	return ValidateFormats(o.Formats)
}

// IsNodelink returns true if this is a node-link visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// BuildOptions converts the build settings. Call ValidateForBuild first.
func (o *Options) BuildOptions() dag.BuildOptions {
	policy, _ := dag.ParseDanglingPolicy(o.Dangling)
	return dag.BuildOptions{Dangling: policy, ExcludeIsolated: o.ExcludeIsolated}
}

// ImportOptions converts the load settings.
func (o *Options) ImportOptions() casesio.ImportOptions {
	return casesio.ImportOptions{Columns: o.Columns, Format: o.InputFormat, Table: o.Table}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// String summarizes the options for debug logs.
func (o *Options) String() string {
	return fmt.Sprintf("input=%s viz=%s formats=%v seed=%d palette=%s dangling=%s",
		o.Input, o.VizType, o.Formats, o.Seed, o.Palette, o.Dangling)
}

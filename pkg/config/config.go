// Package config loads casetree settings from defaults, a TOML file,
// CASETREE_* environment variables and command-line flags.
//
// Priority: Flags > Env > Config File > Defaults. Keys are the long flag
// names, so exclude-isolated can be set as --exclude-isolated, as
// CASETREE_EXCLUDE_ISOLATED=true or as exclude-isolated = true in
// casetree.toml.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	koanftoml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	apperrors "github.com/matzehuels/casetree/pkg/errors"
	casesio "github.com/matzehuels/casetree/pkg/io"
	"github.com/matzehuels/casetree/pkg/pipeline"
)

// DefaultFile is the config file read from the working directory.
const DefaultFile = "casetree.toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "CASETREE_"

// Configuration keys, shared with the CLI flag names.
const (
	KeyInput           = "input"
	KeyInputFormat     = "input-format"
	KeyTable           = "table"
	KeyCaseCol         = "case-col"
	KeyTimeCol         = "time-col"
	KeySourceCol       = "source-col"
	KeyAttrCol         = "attr-col"
	KeyOutput          = "output"
	KeyFormat          = "format"
	KeyType            = "type"
	KeyMarkers         = "markers"
	KeyLabels          = "labels"
	KeyTitle           = "title"
	KeyYLabel          = "ylabel"
	KeyWidth           = "width"
	KeyHeight          = "height"
	KeySeed            = "seed"
	KeyPalette         = "palette"
	KeyDangling        = "dangling"
	KeyExcludeIsolated = "exclude-isolated"
)

// Config holds every setting of the render and stats commands.
type Config struct {
	Input       string `koanf:"input" toml:"input"`
	InputFormat string `koanf:"input-format" toml:"input-format"`
	Table       string `koanf:"table" toml:"table"`
	CaseCol     string `koanf:"case-col" toml:"case-col"`
	TimeCol     string `koanf:"time-col" toml:"time-col"`
	SourceCol   string `koanf:"source-col" toml:"source-col"`
	AttrCol     string `koanf:"attr-col" toml:"attr-col"`

	Output  string `koanf:"output" toml:"output"`
	Format  string `koanf:"format" toml:"format"` // Comma-separated
	Type    string `koanf:"type" toml:"type"`
	Markers bool   `koanf:"markers" toml:"markers"`
	Labels  bool   `koanf:"labels" toml:"labels"`
	Title   string `koanf:"title" toml:"title"`
	YLabel  string `koanf:"ylabel" toml:"ylabel"`
	Width   int    `koanf:"width" toml:"width"`
	Height  int    `koanf:"height" toml:"height"`

	Seed            uint64 `koanf:"seed" toml:"seed"`
	Palette         string `koanf:"palette" toml:"palette"`
	Dangling        string `koanf:"dangling" toml:"dangling"`
	ExcludeIsolated bool   `koanf:"exclude-isolated" toml:"exclude-isolated"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	cols := casesio.DefaultColumns()
	return map[string]any{
		KeyInput:           pipeline.DefaultInput,
		KeyInputFormat:     "",
		KeyTable:           casesio.DefaultTable,
		KeyCaseCol:         cols.Case,
		KeyTimeCol:         cols.Time,
		KeySourceCol:       cols.Source,
		KeyAttrCol:         cols.Attr,
		KeyOutput:          pipeline.DefaultOutput,
		KeyFormat:          pipeline.FormatPNG,
		KeyType:            pipeline.DefaultVizType,
		KeyMarkers:         true,
		KeyLabels:          false,
		KeyTitle:           pipeline.DefaultTitle,
		KeyYLabel:          pipeline.DefaultYLabel,
		KeyWidth:           pipeline.DefaultWidth,
		KeyHeight:          pipeline.DefaultHeight,
		KeySeed:            pipeline.DefaultSeed,
		KeyPalette:         pipeline.DefaultPalette,
		KeyDangling:        pipeline.DefaultDangling,
		KeyExcludeIsolated: false,
	}
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
//
// An empty path reads DefaultFile if it exists. An explicit path must exist.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), koanftoml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidOption, err, "config file %s", path)
		}
	}

	// 3. Environment variables (CASETREE_EXCLUDE_ISOLATED -> exclude-isolated)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidOption, err, "invalid configuration")
	}
	return &cfg, nil
}

// Formats splits the comma-separated format list, dropping blanks.
func (c *Config) Formats() []string {
	var out []string
	for _, f := range strings.Split(c.Format, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Columns returns the configured column names.
func (c *Config) Columns() casesio.Columns {
	return casesio.Columns{Case: c.CaseCol, Time: c.TimeCol, Source: c.SourceCol, Attr: c.AttrCol}
}

// PipelineOptions converts the configuration for a pipeline run.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Input:           c.Input,
		InputFormat:     c.InputFormat,
		Table:           c.Table,
		Columns:         c.Columns(),
		Dangling:        c.Dangling,
		ExcludeIsolated: c.ExcludeIsolated,
		Seed:            c.Seed,
		SeedSet:         true,
		Palette:         c.Palette,
		VizType:         c.Type,
		Formats:         c.Formats(),
		Title:           c.Title,
		YLabel:          c.YLabel,
		Width:           c.Width,
		Height:          c.Height,
		HideMarkers:     !c.Markers,
		Labels:          c.Labels,
	}
}

// WriteTOML encodes the configuration in casetree.toml syntax.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

// Package pkg provides the core libraries for casetree outbreak visualization.
//
// # Overview
//
// Casetree turns a table of infection cases into a plot of transmission
// chains: each case sits at its calendar date on the x-axis and at its
// generation on the y-axis, linked to the case that infected it.
//
// # Architecture
//
// The typical data flow:
//
//	CSV / TSV / JSON / SQLite case table
//	         ↓
//	    [io] package (records)
//	         ↓
//	    [dag] package (validated transmission forest)
//	         ↓
//	    [layout] + [palette] packages (positions and colours)
//	         ↓
//	    [render] packages (PNG, SVG, JSON, DOT)
//
// [pipeline] runs these stages with shared defaults and validation, and
// [config] layers casetree.toml, CASETREE_* variables and flags on top.
//
// # Quick Start
//
//	records, _ := io.Import(ctx, "cluster_network.csv", io.ImportOptions{})
//	g, _ := dag.Build(records, dag.BuildOptions{})
//	l, _ := layout.Compute(g)
//	png, _ := chart.Render(l, g, palette.Assign(g), chart.FormatPNG, chart.DefaultOptions())
//
// # Supporting Packages
//
// [errors] classifies failures with machine-readable codes, [observability]
// exposes stage hooks and [buildinfo] carries version metadata.
//
// [io]: github.com/matzehuels/casetree/pkg/io
// [dag]: github.com/matzehuels/casetree/pkg/dag
// [layout]: github.com/matzehuels/casetree/pkg/layout
// [palette]: github.com/matzehuels/casetree/pkg/palette
// [render]: github.com/matzehuels/casetree/pkg/render
// [pipeline]: github.com/matzehuels/casetree/pkg/pipeline
// [config]: github.com/matzehuels/casetree/pkg/config
// [errors]: github.com/matzehuels/casetree/pkg/errors
// [observability]: github.com/matzehuels/casetree/pkg/observability
// [buildinfo]: github.com/matzehuels/casetree/pkg/buildinfo
package pkg

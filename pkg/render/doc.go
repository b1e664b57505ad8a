// Package render groups the output renderers for laid-out transmission forests.
//
// # Overview
//
// Every renderer consumes the same three inputs: the validated forest from
// [dag], the node positions from [layout] and the colour assignment from
// [palette]. Renderers never move nodes; they only project positions.
//
//   - [chart]: the time-axis plot (PNG or SVG) with one marker series per
//     attribute value, grey transmission edges and a legend
//   - [nodelink]: a Graphviz DOT graph with pinned positions, rendered to
//     SVG or PNG with neato
//   - [sink]: a JSON export of nodes, edges and legend for other tools
//
// # Usage
//
//	l, _ := layout.Compute(g)
//	colors := palette.Assign(g)
//
//	png, err := chart.Render(l, g, colors, chart.FormatPNG, chart.DefaultOptions())
//
//	dot := nodelink.ToDOT(l, g, colors, nodelink.DefaultOptions())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
//	data, err := sink.RenderJSON(l, g, colors, sink.WithJSONSeed(42))
//
// [dag]: github.com/matzehuels/casetree/pkg/dag
// [layout]: github.com/matzehuels/casetree/pkg/layout
// [palette]: github.com/matzehuels/casetree/pkg/palette
// [chart]: github.com/matzehuels/casetree/pkg/render/chart
// [nodelink]: github.com/matzehuels/casetree/pkg/render/nodelink
// [sink]: github.com/matzehuels/casetree/pkg/render/sink
package render

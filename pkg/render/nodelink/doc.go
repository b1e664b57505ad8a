// Package nodelink renders a case layout as a Graphviz node-link diagram.
//
// Nodes keep the coordinates computed by the layout package: [ToDOT] pins
// each case with a pos="x,y!" attribute in inches and the neato engine
// draws the edges between them. Fill colours come from the palette at 40%
// opacity.
//
//	dot := nodelink.ToDOT(l, g, colors, nodelink.DefaultOptions())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no dot or neato binary is required.
package nodelink

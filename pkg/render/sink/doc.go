// Package sink writes computed case layouts in data formats.
//
// [RenderJSON] exports every case with its time, source, attribute,
// generation, plot coordinates and colour, plus the edges and the legend.
// The document is meant for external plotting tools and for diffing
// layouts between runs:
//
//	data, err := sink.RenderJSON(l, g, colors, sink.WithJSONSeed(42))
package sink

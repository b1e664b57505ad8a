// Package chart draws a case layout as a time/generation scatter plot.
//
// Transmission links are grey segments from source to descendant. Cases are
// semi-transparent dots, one series per attribute value so the legend names
// each colour. The x axis is labelled with calendar dates.
//
//	png, err := chart.Render(l, g, colors, chart.FormatPNG, chart.DefaultOptions())
//
// Rendering uses [github.com/wcharczuk/go-chart/v2] and needs no external
// tools.
package chart

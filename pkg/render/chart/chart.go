package chart

import (
	"bytes"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/layout"
	"github.com/matzehuels/casetree/pkg/palette"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	markerWidth = 7
	dotAlpha    = 102 // 0.4 opacity
	dateLayout  = "2006-01-02"

	// UnknownLabel names the legend entry of cases without an attribute.
	UnknownLabel = "unknown"
)

var edgeColor = drawing.Color{R: 160, G: 160, B: 160, A: 255}

// Options controls the plot.
type Options struct {
	Title   string
	YLabel  string
	Width   int
	Height  int
	Markers bool // Draw case dots; edges only when false
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Title:   "Casetree",
		YLabel:  "Generations",
		Width:   1200,
		Height:  800,
		Markers: true,
	}
}

// Render draws l as a PNG or SVG image. An empty layout fails with NO_DATA.
func Render(l *layout.Layout, g *dag.DAG, colors *palette.Assignment, format string, opts Options) ([]byte, error) {
	if l == nil || l.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoData, "no cases to plot")
	}

	var provider gochart.RendererProvider
	switch format {
	case FormatPNG:
		provider = gochart.PNG
	case FormatSVG:
		provider = gochart.SVG
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "chart cannot render %q (want png or svg)", format)
	}

	series := edgeSeries(l, g)
	cases, legend := caseSeries(l, g, colors, opts.Markers)
	series = append(series, cases...)

	minX, maxX, _, _ := l.Bounds()
	pad := (maxX - minX) * 0.02
	if pad == 0 {
		pad = 1
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			ValueFormatter: formatDate,
			Range:          &gochart.ContinuousRange{Min: minX - pad, Max: maxX + pad},
		},
		YAxis: gochart.YAxis{
			Name:  opts.YLabel,
			Range: &gochart.ContinuousRange{Min: -0.05, Max: l.MaxY() + 1},
		},
		Series: series,
	}
	legendSource := gochart.Chart{Series: legend}
	ch.Elements = []gochart.Renderable{gochart.Legend(&legendSource)}

	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "render %s chart", format)
	}
	return buf.Bytes(), nil
}

func formatDate(v any) string {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return ""
	}
	return layout.Date(f).Format(dateLayout)
}

// edgeSeries returns one two-point line per transmission link.
func edgeSeries(l *layout.Layout, g *dag.DAG) []gochart.Series {
	style := gochart.Style{StrokeColor: edgeColor, StrokeWidth: 1, DotWidth: gochart.Disabled}
	var out []gochart.Series
	for _, e := range g.Edges() {
		from, okF := l.Positions[e.From]
		to, okT := l.Positions[e.To]
		if !okF || !okT {
			continue
		}
		out = append(out, gochart.ContinuousSeries{
			XValues: []float64{from.X, to.X},
			YValues: []float64{from.Y, to.Y},
			Style:   style,
		})
	}
	return out
}

// caseSeries returns one dot series per attribute value, plus matching
// line-styled series that only feed the legend.
func caseSeries(l *layout.Layout, g *dag.DAG, colors *palette.Assignment, markers bool) (plot, legend []gochart.Series) {
	xs := make(map[string][]float64)
	ys := make(map[string][]float64)
	for _, id := range l.Order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		pos := l.Positions[id]
		xs[n.Attr] = append(xs[n.Attr], pos.X)
		ys[n.Attr] = append(ys[n.Attr], pos.Y)
	}

	dotWidth := float64(markerWidth)
	if !markers {
		dotWidth = gochart.Disabled
	}
	for _, e := range colors.Legend() {
		x, y := xs[e.Attr], ys[e.Attr]
		if len(x) == 0 {
			continue
		}
		if len(x) == 1 {
			x, y = append(x, x[0]), append(y, y[0])
		}
		name := e.Attr
		if name == "" {
			name = UnknownLabel
		}
		r, gr, b := e.Color.RGB255()
		plot = append(plot, gochart.ContinuousSeries{
			Name:    name,
			XValues: x,
			YValues: y,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    dotWidth,
				DotColor:    drawing.Color{R: r, G: gr, B: b, A: dotAlpha},
			},
		})
		legend = append(legend, gochart.ContinuousSeries{
			Name:    name,
			XValues: x,
			YValues: y,
			Style:   gochart.Style{StrokeColor: drawing.Color{R: r, G: gr, B: b, A: 255}, StrokeWidth: 3},
		})
	}
	return plot, legend
}

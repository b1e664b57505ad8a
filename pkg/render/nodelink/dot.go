package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/layout"
	"github.com/matzehuels/casetree/pkg/palette"
)

// Options configures node-link diagram rendering.
type Options struct {
	// XScale is the horizontal distance in inches per day.
	XScale float64
	// YScale is the vertical distance in inches per generation.
	YScale float64
	// Labels prints case IDs inside the nodes.
	Labels bool
}

// DefaultOptions returns the scales used when none are configured.
func DefaultOptions() Options {
	return Options{XScale: 0.25, YScale: 1.5}
}

// ToDOT converts a case layout to Graphviz DOT with every node pinned at its
// layout position. The result can be rendered with [RenderSVG] or
// [RenderPNG], or with neato -n from the command line.
//
// Synthetic index cases are drawn dashed.
func ToDOT(l *layout.Layout, g *dag.DAG, colors *palette.Assignment, opts Options) string {
	if opts.XScale <= 0 {
		opts.XScale = DefaultOptions().XScale
	}
	if opts.YScale <= 0 {
		opts.YScale = DefaultOptions().YScale
	}
	minX, _, _, _ := l.Bounds()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.3, fontsize=8, color=\"#666666\"];\n")
	buf.WriteString("  edge [color=\"#a0a0a0\", arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, id := range l.Order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		pos := l.Positions[id]
		x := (pos.X - minX) * opts.XScale
		y := pos.Y * opts.YScale
		attrs := fmtAttrs(*n, colors, opts.Labels)
		attrs = append(attrs, fmt.Sprintf("pos=\"%.4f,%.4f!\"", x, y))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n dag.Node, colors *palette.Assignment, labels bool) []string {
	label := ""
	if labels {
		label = n.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if colors != nil {
		if c, ok := colors.NodeColor(n.ID); ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=\"%s66\"", c.Hex()))
		}
	}
	if n.Synthetic {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=\"#ffffff00\"")
	}
	if attr := n.Attr; attr != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.ID+": "+attr))
	}
	return attrs
}

// RenderSVG lays out a DOT graph with neato, honouring pinned positions,
// and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out a DOT graph with neato and returns PNG bytes.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces graphviz's point-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

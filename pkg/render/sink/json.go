package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/layout"
	"github.com/matzehuels/casetree/pkg/palette"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	seed    uint64
	palette string
	title   string
}

// WithJSONSeed records the jitter seed so the layout can be reproduced.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONPalette records the palette mode name.
func WithJSONPalette(mode string) JSONOption { return func(r *jsonRenderer) { r.palette = mode } }

// WithJSONTitle records the plot title.
func WithJSONTitle(title string) JSONOption { return func(r *jsonRenderer) { r.title = title } }

type jsonOutput struct {
	Title         string       `json:"title,omitempty"`
	Seed          uint64       `json:"seed,omitempty"`
	Palette       string       `json:"palette,omitempty"`
	MaxGeneration int          `json:"max_generation"`
	Nodes         []jsonNode   `json:"nodes"`
	Edges         []jsonEdge   `json:"edges"`
	Legend        []jsonLegend `json:"legend"`
}

type jsonNode struct {
	ID         string  `json:"id"`
	Time       string  `json:"time"`
	Source     string  `json:"source,omitempty"`
	Attr       string  `json:"attr"`
	Generation int     `json:"generation"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Color      string  `json:"color,omitempty"`
	Root       bool    `json:"root,omitempty"`
	Synthetic  bool    `json:"synthetic,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type jsonLegend struct {
	Attr   string  `json:"attr"`
	Scalar float64 `json:"scalar"`
	Color  string  `json:"color"`
}

// RenderJSON exports the layout as a pretty-printed JSON document. Nodes
// appear in layout order. An empty layout fails with NO_DATA.
func RenderJSON(l *layout.Layout, g *dag.DAG, colors *palette.Assignment, opts ...JSONOption) ([]byte, error) {
	if l == nil || l.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoData, "no cases to export")
	}
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Title:         r.title,
		Seed:          r.seed,
		Palette:       r.palette,
		MaxGeneration: l.MaxGeneration(),
		Nodes:         buildJSONNodes(l, g, colors),
		Edges:         buildJSONEdges(g),
		Legend:        buildJSONLegend(colors),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "encode layout")
	}
	return data, nil
}

func buildJSONNodes(l *layout.Layout, g *dag.DAG, colors *palette.Assignment) []jsonNode {
	nodes := make([]jsonNode, 0, l.Len())
	for _, id := range l.Order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		pos := l.Positions[id]
		jn := jsonNode{
			ID:         id,
			Time:       n.Time.UTC().Format(time.RFC3339),
			Source:     n.Source,
			Attr:       n.Attr,
			Generation: l.Generations[id],
			X:          pos.X,
			Y:          pos.Y,
			Root:       n.Root,
			Synthetic:  n.Synthetic,
		}
		if colors != nil {
			if c, ok := colors.NodeColor(id); ok {
				jn.Color = c.Hex()
			}
		}
		nodes = append(nodes, jn)
	}
	return nodes
}

func buildJSONEdges(g *dag.DAG) []jsonEdge {
	edges := make([]jsonEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edges = append(edges, jsonEdge{From: e.From, To: e.To})
	}
	return edges
}

func buildJSONLegend(colors *palette.Assignment) []jsonLegend {
	if colors == nil {
		return []jsonLegend{}
	}
	legend := make([]jsonLegend, 0, colors.Len())
	for _, e := range colors.Legend() {
		legend = append(legend, jsonLegend{Attr: e.Attr, Scalar: e.Scalar, Color: e.Hex()})
	}
	return legend
}

package layout

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
)

const (
	// RootY is the y coordinate of every index case.
	RootY = 0.1

	// DefaultSeed seeds the jitter source when WithSeed is not given.
	DefaultSeed uint64 = 42

	jitterY        = 0.2
	jitterAttempts = 64
)

const day = float64(24 * time.Hour / time.Second)

// PlotDate converts t to fractional days since the Unix epoch (UTC).
func PlotDate(t time.Time) float64 {
	return float64(t.Unix())/day + float64(t.Nanosecond())/(day*1e9)
}

// Date is the inverse of PlotDate.
func Date(x float64) time.Time {
	sec, frac := math.Modf(x * day)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// Position is a point on the plot plane.
type Position struct {
	X float64 // Plot date
	Y float64 // Generation, RootY for index cases
}

// Layout is the placement of every case.
type Layout struct {
	Positions   map[string]Position
	Generations map[string]int
	// Order lists case IDs in placement order: clusters by root time, each
	// breadth-first with siblings by time.
	Order []string
}

// Len returns the number of placed cases.
func (l *Layout) Len() int { return len(l.Order) }

// MaxGeneration returns the deepest generation, 0 for an empty layout.
func (l *Layout) MaxGeneration() int {
	m := 0
	for _, g := range l.Generations {
		m = max(m, g)
	}
	return m
}

// MaxY returns the largest y coordinate, 0 for an empty layout.
func (l *Layout) MaxY() float64 {
	m := 0.0
	for _, p := range l.Positions {
		m = max(m, p.Y)
	}
	return m
}

// Bounds returns the bounding box of all positions. All four values are 0
// for an empty layout.
func (l *Layout) Bounds() (minX, maxX, minY, maxY float64) {
	first := true
	for _, p := range l.Positions {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

// Option configures Compute.
type Option func(*config)

type config struct {
	seed uint64
}

// WithSeed sets the jitter seed.
func WithSeed(seed uint64) Option { return func(c *config) { c.seed = seed } }

// Compute places every case of g. Cases are visited breadth-first from the
// index cases so a source is always placed before anything it infected.
//
// An empty graph yields an empty layout. A graph with cases that no index
// case reaches fails with CYCLE.
func Compute(g *dag.DAG, opts ...Option) (*Layout, error) {
	cfg := config{seed: DefaultSeed}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := g.NodeCount()
	l := &Layout{
		Positions:   make(map[string]Position, n),
		Generations: make(map[string]int, n),
		Order:       make([]string, 0, n),
	}
	if n == 0 {
		return l, nil
	}

	p := placer{
		layout:   l,
		occupied: make(map[Position]bool, n),
		rng:      rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)),
		bound:    jitterBound(g),
	}

	for _, root := range g.Roots() {
		p.place(root.ID, Position{X: PlotDate(root.Time), Y: RootY}, 0)
		for i := len(l.Order) - 1; i < len(l.Order); i++ {
			src := l.Order[i]
			srcNode, _ := g.Node(src)
			for _, id := range g.Children(src) {
				p.placeChild(id, srcNode)
			}
		}
	}

	if len(l.Order) != n {
		return nil, apperrors.New(apperrors.ErrCodeCycle,
			"%d of %d cases are not reachable from an index case", n-len(l.Order), n)
	}
	return l, nil
}

type placer struct {
	layout   *Layout
	occupied map[Position]bool
	rng      *rand.Rand
	bound    float64
}

func (p *placer) place(id string, pos Position, gen int) {
	p.layout.Positions[id] = pos
	p.layout.Generations[id] = gen
	p.layout.Order = append(p.layout.Order, id)
	p.occupied[pos] = true
}

func (p *placer) placeChild(id string, src *dag.Node) {
	gen := p.layout.Generations[src.ID] + 1
	if gen > 1 {
		p.place(id, Position{X: p.layout.Positions[src.ID].X, Y: float64(gen)}, gen)
		return
	}
	pos := Position{X: PlotDate(src.Time), Y: 1}
	if p.occupied[pos] {
		pos = p.jitter(pos)
	}
	p.place(id, pos, gen)
}

// jitter draws offsets until the shifted point is free. After
// jitterAttempts the last draw is used.
func (p *placer) jitter(pos Position) Position {
	var out Position
	for range jitterAttempts {
		dx := (p.rng.Float64()*2 - 1) * p.bound
		dy := (p.rng.Float64()*2 - 1) * jitterY
		if dx == 0 && dy == 0 {
			continue
		}
		out = Position{X: pos.X + dx, Y: pos.Y + dy}
		if !p.occupied[out] {
			return out
		}
	}
	return out
}

// jitterBound is the plotted date range divided by the number of cases.
// A graph spanning a single instant uses one day as its range.
func jitterBound(g *dag.DAG) float64 {
	first, last := g.TimeRange()
	span := PlotDate(last) - PlotDate(first)
	if span <= 0 {
		span = 1
	}
	return span / float64(g.NodeCount())
}

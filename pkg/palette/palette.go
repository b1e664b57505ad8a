package palette

import (
	"math/rand/v2"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/casetree/pkg/dag"
	apperrors "github.com/matzehuels/casetree/pkg/errors"
)

// Mode selects how attribute values are spread over the colormap.
type Mode int

const (
	// ModeSorted spaces sorted values evenly: value i of k gets (i+0.5)/k.
	ModeSorted Mode = iota
	// ModeRandom takes one scalar per value from a seeded random pool.
	ModeRandom
)

// String returns the mode name used in configuration.
func (m Mode) String() string {
	if m == ModeRandom {
		return "random"
	}
	return "sorted"
}

// ParseMode parses "sorted" or "random".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "sorted":
		return ModeSorted, nil
	case "random":
		return ModeRandom, nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidOption, "unknown palette mode %q (want sorted or random)", s)
}

// DefaultSeed seeds ModeRandom when WithSeed is not given.
const DefaultSeed uint64 = 42

// Entry is one legend row.
type Entry struct {
	Attr   string
	Scalar float64
	Color  colorful.Color
}

// Hex returns the entry colour as #rrggbb.
func (e Entry) Hex() string { return e.Color.Hex() }

// Assignment is the colour of every attribute value and case of one graph.
type Assignment struct {
	entries []Entry           // sorted by Attr
	byAttr  map[string]int    // attr -> index into entries
	attrOf  map[string]string // case ID -> attr
}

// Option configures Assign.
type Option func(*config)

type config struct {
	mode     Mode
	seed     uint64
	colormap Colormap
}

// WithMode sets the assignment mode.
func WithMode(m Mode) Option { return func(c *config) { c.mode = m } }

// WithSeed seeds ModeRandom.
func WithSeed(seed uint64) Option { return func(c *config) { c.seed = seed } }

// WithColormap replaces Viridis.
func WithColormap(cm Colormap) Option { return func(c *config) { c.colormap = cm } }

// Assign gives every attribute value that occurs in g a colour.
func Assign(g *dag.DAG, opts ...Option) *Assignment {
	cfg := config{mode: ModeSorted, seed: DefaultSeed, colormap: Viridis}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Assignment{
		byAttr: make(map[string]int),
		attrOf: make(map[string]string, g.NodeCount()),
	}

	var seen []string // distinct values in node order
	for _, n := range g.Nodes() {
		a.attrOf[n.ID] = n.Attr
		if _, ok := a.byAttr[n.Attr]; !ok {
			a.byAttr[n.Attr] = -1
			seen = append(seen, n.Attr)
		}
	}

	scalars := make(map[string]float64, len(seen))
	switch cfg.mode {
	case ModeRandom:
		rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x2545f4914f6cdd1d))
		pool := make([]float64, g.NodeCount())
		for i := range pool {
			pool[i] = rng.Float64()
		}
		for _, attr := range seen {
			i := rng.IntN(len(pool))
			scalars[attr] = pool[i]
			pool = slices.Delete(pool, i, i+1)
		}
	default:
		sorted := slices.Sorted(slices.Values(seen))
		for i, attr := range sorted {
			scalars[attr] = (float64(i) + 0.5) / float64(len(sorted))
		}
	}

	attrs := slices.Sorted(slices.Values(seen))
	a.entries = make([]Entry, len(attrs))
	for i, attr := range attrs {
		s := scalars[attr]
		a.entries[i] = Entry{Attr: attr, Scalar: s, Color: cfg.colormap.At(s)}
		a.byAttr[attr] = i
	}
	return a
}

// Scalar returns the colormap scalar of attr and whether attr occurs.
func (a *Assignment) Scalar(attr string) (float64, bool) {
	i, ok := a.byAttr[attr]
	if !ok {
		return 0, false
	}
	return a.entries[i].Scalar, true
}

// Color returns the colour of attr and whether attr occurs.
func (a *Assignment) Color(attr string) (colorful.Color, bool) {
	i, ok := a.byAttr[attr]
	if !ok {
		return colorful.Color{}, false
	}
	return a.entries[i].Color, true
}

// NodeColor returns the colour of case id.
func (a *Assignment) NodeColor(id string) (colorful.Color, bool) {
	attr, ok := a.attrOf[id]
	if !ok {
		return colorful.Color{}, false
	}
	return a.Color(attr)
}

// Legend returns one entry per attribute value, sorted by value.
func (a *Assignment) Legend() []Entry { return slices.Clone(a.entries) }

// Len returns the number of distinct attribute values.
func (a *Assignment) Len() int { return len(a.entries) }

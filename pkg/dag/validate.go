package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CycleError reports the cases caught in a loop of source references.
type CycleError struct {
	IDs []string // Case IDs in one loop, sorted
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrGraphHasCycle, strings.Join(e.IDs, ", "))
}

// Is lets errors.Is match ErrGraphHasCycle.
func (e *CycleError) Is(target error) bool { return target == ErrGraphHasCycle }

// Validate checks the forest invariants and returns nil if they hold:
//
//  1. Every edge connects existing nodes (ErrInvalidEdgeEndpoint)
//  2. Every edge runs from a node's recorded source to it (ErrSourceMismatch)
//  3. Roots have no parent and every other node has exactly one (ErrNotForest)
//  4. No source chain loops (a *CycleError matching ErrGraphHasCycle)
func (d *DAG) Validate() error {
	if err := d.validateEdges(); err != nil {
		return err
	}
	if err := d.validateParents(); err != nil {
		return err
	}
	return d.detectCycles()
}

func (d *DAG) validateEdges() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
		if dst.Source != e.From {
			return fmt.Errorf("%w: %s -> %s (source of %s is %q)", ErrSourceMismatch, e.From, e.To, e.To, dst.Source)
		}
	}
	return nil
}

func (d *DAG) validateParents() error {
	for _, id := range d.order {
		n := d.nodes[id]
		parents := len(d.incoming[id])
		switch {
		case n.Root && parents != 0:
			return fmt.Errorf("%w: index case %s has %d sources", ErrNotForest, id, parents)
		case !n.Root && parents != 1:
			return fmt.Errorf("%w: case %s has %d source edges, want 1", ErrNotForest, id, parents)
		}
	}
	return nil
}

// detectCycles mirrors the graph into gonum and asks for a topological
// order; an unorderable graph has a loop.
func (d *DAG) detectCycles() error {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(d.order))
	names := make(map[int64]string, len(d.order))
	for i, id := range d.order {
		ids[id] = int64(i)
		names[int64(i)] = id
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range d.edges {
		from, to := ids[e.From], ids[e.To]
		if from == to || g.HasEdgeFromTo(from, to) {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(from), g.Node(to)))
	}

	if _, err := topo.Sort(g); err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) && len(unorderable) > 0 {
			loop := make([]string, 0, len(unorderable[0]))
			for _, n := range unorderable[0] {
				loop = append(loop, names[n.ID()])
			}
			slices.Sort(loop)
			return &CycleError{IDs: loop}
		}
		return ErrGraphHasCycle
	}
	return nil
}

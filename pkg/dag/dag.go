package dag

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Case IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrSourceMismatch is returned by [DAG.Validate] when an edge's From
	// node is not the recorded source of its To node.
	ErrSourceMismatch = errors.New("edge disagrees with recorded source")

	// ErrNotForest is returned by [DAG.Validate] when a root has a parent
	// or a non-root case does not have exactly one.
	ErrNotForest = errors.New("graph is not a forest")

	// ErrGraphHasCycle is returned by [DAG.Validate] when source chains
	// form a loop.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Node is one case in the graph.
type Node struct {
	ID     string    // Unique case identifier
	Time   time.Time // When the case was recorded
	Source string    // Infecting case ID; empty for an index case
	Attr   string    // Categorical attribute used for colouring

	// Root marks an index case. It is set by AddNode from Source and is the
	// only root test used downstream.
	Root bool
	// Synthetic marks an index case inserted for a dangling source reference.
	Synthetic bool
}

// Edge is a transmission link from a source case to a case it infected.
type Edge struct {
	From string // Source case ID
	To   string // Infected case ID
}

// DAG is a forest of transmission trees.
//
// The zero value is not usable - use New to create a valid DAG instance.
type DAG struct {
	nodes    map[string]*Node
	order    []string // insertion order of node IDs
	edges    []Edge
	outgoing map[string][]string // nodeID -> infected case IDs
	incoming map[string][]string // nodeID -> source case IDs
}

// New creates an empty case graph.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a case to the graph. Root is derived from Source: a node
// without a source is an index case.
// Returns ErrInvalidNodeID if the ID is empty, or ErrDuplicateNodeID if a
// node with the same ID already exists.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	n.Root = n.Source == ""
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge adds a transmission edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist. Agreement with the
// recorded source is checked by Validate, not here.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not found.
// The returned pointer refers to the node in the graph.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by time, then ID.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	SortNodes(nodes)
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of cases infected by id, ordered by time, then ID.
// Returns nil if the node has no children or doesn't exist.
func (d *DAG) Children(id string) []string {
	kids := d.outgoing[id]
	if len(kids) == 0 {
		return nil
	}
	out := slices.Clone(kids)
	slices.SortFunc(out, func(a, b string) int { return compareNodes(d.nodes[a], d.nodes[b]) })
	return out
}

// Parents returns the IDs of nodes with edges into id. In a valid forest
// this is the recorded source or nothing.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Parent returns the source node of id, or nil and false for an index case.
func (d *DAG) Parent(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	if !ok || n.Root {
		return nil, false
	}
	p, ok := d.nodes[n.Source]
	return p, ok
}

// OutDegree returns the number of cases infected by id.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to id.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Roots returns the index cases ordered by time, then ID.
func (d *DAG) Roots() []*Node {
	var roots []*Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.Root {
			roots = append(roots, n)
		}
	}
	SortNodes(roots)
	return roots
}

// Leaves returns cases that infected no one, ordered by time, then ID.
func (d *DAG) Leaves() []*Node {
	var leaves []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			leaves = append(leaves, d.nodes[id])
		}
	}
	SortNodes(leaves)
	return leaves
}

// Clusters groups case IDs by the index case of their transmission tree.
// Each member list starts with the root and continues breadth-first.
func (d *DAG) Clusters() map[string][]string {
	clusters := make(map[string][]string)
	for _, r := range d.Roots() {
		members := []string{r.ID}
		for i := 0; i < len(members); i++ {
			members = append(members, d.Children(members[i])...)
		}
		clusters[r.ID] = members
	}
	return clusters
}

// TimeRange returns the earliest and latest case times.
// Both are zero for an empty graph.
func (d *DAG) TimeRange() (first, last time.Time) {
	for i, id := range d.order {
		t := d.nodes[id].Time
		if i == 0 || t.Before(first) {
			first = t
		}
		if i == 0 || t.After(last) {
			last = t
		}
	}
	return first, last
}

// SortNodes orders nodes by time, then ID.
func SortNodes(nodes []*Node) {
	slices.SortFunc(nodes, compareNodes)
}

func compareNodes(a, b *Node) int {
	if c := a.Time.Compare(b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// Reverse returns a copy of the graph with every edge flipped, so edges run
// from a case to its source as in the case table. The result is not a
// forest and fails Validate when any case has more than one descendant.
func (d *DAG) Reverse() *DAG {
	r := New()
	for _, id := range d.order {
		n := *d.nodes[id]
		r.nodes[id] = &n
		r.order = append(r.order, id)
	}
	for _, e := range d.edges {
		fe := Edge{From: e.To, To: e.From}
		r.edges = append(r.edges, fe)
		r.outgoing[fe.From] = append(r.outgoing[fe.From], fe.To)
		r.incoming[fe.To] = append(r.incoming[fe.To], fe.From)
	}
	return r
}

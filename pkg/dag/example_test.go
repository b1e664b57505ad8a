package dag_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/casetree/pkg/dag"
	"github.com/matzehuels/casetree/pkg/io"
)

func ExampleBuild() {
	d := func(n int) time.Time { return time.Date(2013, time.April, n, 0, 0, 0, 0, time.UTC) }
	records := []io.Record{
		{ID: "A", Time: d(1), Attr: "fatal"},
		{ID: "B", Time: d(2), Source: "A", Attr: "mild"},
		{ID: "C", Time: d(3), Source: "A", Attr: "mild"},
		{ID: "D", Time: d(4), Source: "B", Attr: "fatal"},
	}

	g, err := dag.Build(records, dag.BuildOptions{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of A:", g.Children("A"))
	fmt.Println("Cluster A:", g.Clusters()["A"])
	// Output:
	// Nodes: 4
	// Edges: 3
	// Children of A: [B C]
	// Cluster A: [A B C D]
}

func ExampleDAG_Roots() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "1"})
	_ = g.AddNode(dag.Node{ID: "2", Source: "1"})
	_ = g.AddNode(dag.Node{ID: "3"})
	_ = g.AddEdge(dag.Edge{From: "1", To: "2"})

	fmt.Println("Roots:", dag.NodeIDs(g.Roots()))
	fmt.Println("Leaves:", dag.NodeIDs(g.Leaves()))
	// Output:
	// Roots: [1 3]
	// Leaves: [2 3]
}

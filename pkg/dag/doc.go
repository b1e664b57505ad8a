// Package dag provides the case graph: a forest of transmission trees in
// which every edge runs from a source case to a case it infected.
//
// # Overview
//
// Each outbreak cluster is a tree rooted at an index case, a case with no
// recorded source. Unrelated clusters are disconnected, so the whole graph is
// a forest. Every non-index case has exactly one incoming edge.
//
// # Building
//
// [Build] turns loaded case records into a graph:
//
//	records, _ := io.Import(ctx, "cluster_network.csv", io.ImportOptions{})
//	g, err := dag.Build(records, dag.BuildOptions{})
//
// One node is added per case and one edge per record with a source. The
// graph is built directly in transmission direction (source → descendant).
//
// A source that names no case is a dangling reference. [DanglingReject]
// (the default) fails the build; [DanglingRoot] inserts a synthetic index
// case for it instead, timed at the earliest case it infected.
//
// # Roots
//
// Whether a node is an index case is stored once, in [Node.Root], when the
// node is added. Nothing downstream infers it from sentinel values.
//
// # Validation
//
// [DAG.Validate] checks the forest invariants: edges point at existing
// nodes, agree with each node's recorded source, every non-root has one
// parent and no source chain loops back on itself. Loops are found with
// gonum's topological sort.
//
// # Concurrency
//
// DAG is not safe for concurrent use without external synchronization.
package dag

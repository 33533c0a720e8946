// Package dag provides the index-addressed, edge-labelled directed multigraph
// underneath a texture generator.
//
// # Overview
//
// Nodes are dense integer IDs assigned in insertion order. Edges carry a
// label (the input name on the consumer side) and several edges may join the
// same pair of nodes, which is how a consumer receives more than one named
// operand from the same producer.
//
// # Basic Usage
//
//	g := dag.New()
//	sink := g.AddNode()
//	src := g.AddNode()
//	g.AddEdge(src, sink, "in")
//
// Query the structure with [DAG.InEdges], [DAG.OutEdges], [DAG.Parents] and
// [DAG.Children]. All of them report edges in insertion order.
//
// # Evaluation Order
//
// [DAG.TopoOrderFrom] walks incoming edges backwards from a root and returns
// the reachable subgraph in producer-before-consumer order. Nodes that do not
// feed the root are pruned. A reachable cycle yields [ErrGraphHasCycle].
// [DAG.TopoOrderVia] does the same walk over a caller-chosen subset of each
// node's incoming edges.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag

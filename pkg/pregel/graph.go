// Package pregel implements a vertex-centric bulk-synchronous-parallel
// computation engine. An algorithm supplies a per-node init function and a
// per-node compute function; the engine drives them in synchronized
// supersteps, delivering messages across superstep boundaries and detecting
// convergence through halt votes and pending messages.
package pregel

// Graph is the read-only topology a computation runs over. Implementations
// must be safe for concurrent use; the engine never mutates topology.
//
// Node ids are dense and zero-based: every id in [0, NodeCount()) is a node.
type Graph interface {
	// NodeCount returns the number of nodes.
	NodeCount() uint64

	// Degree returns the number of outgoing relationships of a node.
	Degree(node uint64) int

	// ForEachNeighbor invokes fn for every outgoing relationship of a node,
	// in adjacency order, until fn returns false. Unweighted graphs report a
	// weight of 1.0.
	ForEachNeighbor(node uint64, fn func(target uint64, weight float64) bool)
}

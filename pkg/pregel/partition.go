package pregel

// Partition describes the half-open node id range [StartNode, StartNode+NodeCount)
// assigned to one unit of work. Partitions are immutable values, created fresh
// per superstep or per split and discarded once the covered range has run.
type Partition struct {
	startNode uint64
	nodeCount int
}

func NewPartition(startNode uint64, nodeCount int) Partition {
	return Partition{startNode: startNode, nodeCount: nodeCount}
}

// StartNode returns the first node id in the range.
func (p Partition) StartNode() uint64 {
	return p.startNode
}

// NodeCount returns the number of node ids in the range.
func (p Partition) NodeCount() int {
	return p.nodeCount
}

// Range returns the half-open id range covered by the partition.
func (p Partition) Range() (lo, hi uint64) {
	return p.startNode, p.startNode + uint64(p.nodeCount)
}

// Consume invokes fn for every node id in the range, in ascending order.
func (p Partition) Consume(fn func(node uint64)) {
	lo, hi := p.Range()
	for node := lo; node < hi; node++ {
		fn(node)
	}
}

// halve splits the partition into two disjoint halves that together cover
// exactly the original range. The caller must only halve partitions with at
// least two nodes.
func (p Partition) halve() (Partition, Partition) {
	left := p.nodeCount / 2
	return Partition{startNode: p.startNode, nodeCount: left},
		Partition{startNode: p.startNode + uint64(left), nodeCount: p.nodeCount - left}
}

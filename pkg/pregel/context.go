package pregel

import (
	"github.com/vertigograph/vertigo/pkg/values"
)

// nodeContext is the node-bound view shared by InitContext and
// ComputeContext. One instance is rebound across consecutive nodes within a
// leaf step.
type nodeContext struct {
	graph  Graph
	values *values.NodeValues
	node   uint64
}

func (c *nodeContext) bindNode(node uint64) {
	c.node = node
}

// NodeID returns the id of the node this context is bound to.
func (c *nodeContext) NodeID() uint64 {
	return c.node
}

// NodeCount returns the total number of nodes in the graph.
func (c *nodeContext) NodeCount() uint64 {
	return c.graph.NodeCount()
}

// Degree returns the number of outgoing relationships of the bound node.
func (c *nodeContext) Degree() int {
	return c.graph.Degree(c.node)
}

// ForEachNeighbor invokes fn for every outgoing relationship of the bound
// node until fn returns false.
func (c *nodeContext) ForEachNeighbor(fn func(target uint64, weight float64) bool) {
	c.graph.ForEachNeighbor(c.node, fn)
}

// SetLongValue writes a long property of the bound node.
func (c *nodeContext) SetLongValue(name string, value int64) error {
	return c.values.SetLong(name, c.node, value)
}

// SetDoubleValue writes a double property of the bound node.
func (c *nodeContext) SetDoubleValue(name string, value float64) error {
	return c.values.SetDouble(name, c.node, value)
}

// SetLongArrayValue writes a long-array property of the bound node.
func (c *nodeContext) SetLongArrayValue(name string, value []int64) error {
	return c.values.SetLongArray(name, c.node, value)
}

// SetDoubleArrayValue writes a double-array property of the bound node.
func (c *nodeContext) SetDoubleArrayValue(name string, value []float64) error {
	return c.values.SetDoubleArray(name, c.node, value)
}

// InitContext is the view handed to Computation.Init at superstep 0. It
// exposes property initialization and read-only topology; reading property
// values is deliberately absent since nothing has been written yet.
type InitContext struct {
	nodeContext
}

// ComputeContext is the view handed to Computation.Compute. It exposes
// read/write access to the bound node's properties, topology reads, message
// sending and the halt vote.
type ComputeContext[M any] struct {
	nodeContext

	superstep int
	messenger Messenger[M]
	votes     *VoteBits
}

// Superstep returns the zero-based index of the running superstep.
func (c *ComputeContext[M]) Superstep() int {
	return c.superstep
}

// IsInitialSuperstep reports whether this is superstep 0.
func (c *ComputeContext[M]) IsInitialSuperstep() bool {
	return c.superstep == 0
}

// LongValue reads a long property of the bound node.
func (c *ComputeContext[M]) LongValue(name string) (int64, error) {
	return c.values.Long(name, c.node)
}

// DoubleValue reads a double property of the bound node.
func (c *ComputeContext[M]) DoubleValue(name string) (float64, error) {
	return c.values.Double(name, c.node)
}

// LongArrayValue reads a long-array property of the bound node.
func (c *ComputeContext[M]) LongArrayValue(name string) ([]int64, error) {
	return c.values.LongArray(name, c.node)
}

// DoubleArrayValue reads a double-array property of the bound node.
func (c *ComputeContext[M]) DoubleArrayValue(name string) ([]float64, error) {
	return c.values.DoubleArray(name, c.node)
}

// SendTo buffers a message for target, delivered at the next superstep.
// Sending to any node is allowed, neighbor or not.
func (c *ComputeContext[M]) SendTo(target uint64, message M) {
	c.messenger.Send(target, message)
}

// SendToNeighbors buffers a message for every neighbor of the bound node.
func (c *ComputeContext[M]) SendToNeighbors(message M) {
	c.graph.ForEachNeighbor(c.node, func(target uint64, _ float64) bool {
		c.messenger.Send(target, message)
		return true
	})
}

// VoteToHalt proposes that the bound node skip future supersteps. The
// proposal is withdrawn automatically if a message arrives for the node.
func (c *ComputeContext[M]) VoteToHalt() {
	c.votes.Vote(c.node)
}

// MasterContext is the round-level view handed to MasterCompute once per
// superstep, before per-node work begins. It runs single-threaded and may
// read and write any node's properties.
type MasterContext struct {
	graph     Graph
	values    *values.NodeValues
	superstep int
	terminate bool
}

// Superstep returns the zero-based index of the superstep about to run.
func (c *MasterContext) Superstep() int {
	return c.superstep
}

// NodeCount returns the total number of nodes in the graph.
func (c *MasterContext) NodeCount() uint64 {
	return c.graph.NodeCount()
}

// LongValue reads a long property of any node.
func (c *MasterContext) LongValue(name string, node uint64) (int64, error) {
	return c.values.Long(name, node)
}

// SetLongValue writes a long property of any node.
func (c *MasterContext) SetLongValue(name string, node uint64, value int64) error {
	return c.values.SetLong(name, node, value)
}

// DoubleValue reads a double property of any node.
func (c *MasterContext) DoubleValue(name string, node uint64) (float64, error) {
	return c.values.Double(name, node)
}

// SetDoubleValue writes a double property of any node.
func (c *MasterContext) SetDoubleValue(name string, node uint64, value float64) error {
	return c.values.SetDouble(name, node, value)
}

// SignalTermination ends the run after this point without running the
// superstep's per-node work. The run result reports convergence.
func (c *MasterContext) SignalTermination() {
	c.terminate = true
}

package pregel

import (
	"math/bits"
	"sync/atomic"
)

// VoteBits records halt proposals, one bit per node. A set bit means the node
// proposes to skip the next superstep. All operations are atomic and safe for
// concurrent use across arbitrary node ids; message delivery clears votes
// across partition boundaries.
type VoteBits struct {
	words     []atomic.Uint64
	nodeCount uint64
}

func NewVoteBits(nodeCount uint64) *VoteBits {
	return &VoteBits{
		words:     make([]atomic.Uint64, (nodeCount+63)/64),
		nodeCount: nodeCount,
	}
}

// Vote sets the halt proposal for a node.
func (v *VoteBits) Vote(node uint64) {
	v.words[node>>6].Or(1 << (node & 63))
}

// Clear removes the halt proposal for a node.
func (v *VoteBits) Clear(node uint64) {
	v.words[node>>6].And(^uint64(1 << (node & 63)))
}

// Voted reports whether a node currently proposes to halt.
func (v *VoteBits) Voted(node uint64) bool {
	return v.words[node>>6].Load()&(1<<(node&63)) != 0
}

// AllVoted reports whether every node proposes to halt.
func (v *VoteBits) AllVoted() bool {
	if v.nodeCount == 0 {
		return true
	}
	full := v.nodeCount / 64
	for i := uint64(0); i < full; i++ {
		if v.words[i].Load() != ^uint64(0) {
			return false
		}
	}
	if rem := v.nodeCount & 63; rem != 0 {
		mask := uint64(1)<<rem - 1
		if v.words[full].Load()&mask != mask {
			return false
		}
	}
	return true
}

// VotedCount returns the number of nodes currently proposing to halt.
func (v *VoteBits) VotedCount() uint64 {
	var n uint64
	for i := range v.words {
		n += uint64(bits.OnesCount64(v.words[i].Load()))
	}
	return n
}

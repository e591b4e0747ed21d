package pregel

import (
	"context"
	"fmt"

	"github.com/vertigograph/vertigo/internal/concurrency"
	"github.com/vertigograph/vertigo/pkg/values"
)

// cancelCheckInterval is the number of nodes a leaf processes between
// context cancellation checks.
const cancelCheckInterval = 1024

// computeStep executes one partition's worth of per-node work. A step whose
// partition exceeds the split threshold forks into two children covering the
// two halves of its range and joins them before returning; a leaf iterates
// its partition sequentially on one worker.
//
// Steps share the value store, messenger and vote bits by handle. No
// post-join merge is needed: partitions are disjoint and every per-node write
// is addressed by node id.
type computeStep[M any] struct {
	partition Partition
	superstep int

	computation Computation[M]
	graph       Graph
	values      *values.NodeValues
	messenger   Messenger[M]
	votes       *VoteBits

	splitThreshold int
}

// split returns the two children of this step, or ok=false when the
// partition is small enough to run sequentially.
func (s *computeStep[M]) split() (left, right computeStep[M], ok bool) {
	if s.partition.NodeCount() <= s.splitThreshold {
		return computeStep[M]{}, computeStep[M]{}, false
	}
	lp, rp := s.partition.halve()
	left, right = *s, *s
	left.partition, right.partition = lp, rp
	return left, right, true
}

func (s *computeStep[M]) run(ctx context.Context) error {
	if left, right, ok := s.split(); ok {
		p := concurrency.NewPool(ctx, 2)
		p.Go(left.run)
		p.Go(right.run)
		return p.Wait()
	}
	return s.runLeaf(ctx)
}

// runLeaf drives the per-node loop for this step's partition. A panic inside
// the supplied init or compute function is recovered once here, annotated
// with the failing node and superstep, and returned as an error; the executor
// treats it as fatal for the whole run.
func (s *computeStep[M]) runLeaf(ctx context.Context) (err error) {
	node := s.partition.StartNode()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("computation panicked at node %d, superstep %d: %v", node, s.superstep, r)
		}
	}()

	lo, hi := s.partition.Range()

	if s.superstep == 0 {
		initCtx := &InitContext{nodeContext{graph: s.graph, values: s.values}}
		for node = lo; node < hi; node++ {
			if (node-lo)%cancelCheckInterval == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			initCtx.bindNode(node)
			if err := s.computation.Init(initCtx); err != nil {
				return fmt.Errorf("init failed at node %d: %w", node, err)
			}
		}
	}

	computeCtx := &ComputeContext[M]{
		nodeContext: nodeContext{graph: s.graph, values: s.values},
		superstep:   s.superstep,
		messenger:   s.messenger,
		votes:       s.votes,
	}
	var messages Messages[M]

	for node = lo; node < hi; node++ {
		if (node-lo)%cancelCheckInterval == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		// A node is active when it has not voted to halt or a message
		// arrived for it. The messenger clears votes at send time, but a
		// vote cast after the send within the same superstep would stand,
		// so pending messages are consulted directly — and the stale vote
		// is withdrawn, keeping the node active until it votes again.
		if s.superstep > 0 {
			if s.messenger.HasMessages(node) {
				s.votes.Clear(node)
			} else if s.votes.Voted(node) {
				continue
			}
		}
		computeCtx.bindNode(node)
		s.messenger.FillMessages(node, &messages)
		if err := s.computation.Compute(computeCtx, &messages); err != nil {
			return fmt.Errorf("compute failed at node %d, superstep %d: %w", node, s.superstep, err)
		}
	}

	return nil
}

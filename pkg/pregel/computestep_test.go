package pregel

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertigograph/vertigo/pkg/schema"
	"github.com/vertigograph/vertigo/pkg/values"
)

func newTestStep(t *testing.T, g Graph, comp Computation[int64], superstep, threshold int) computeStep[int64] {
	t.Helper()
	nodeCount := g.NodeCount()
	votes := NewVoteBits(nodeCount)
	return computeStep[int64]{
		partition:      NewPartition(0, int(nodeCount)),
		superstep:      superstep,
		computation:    comp,
		graph:          g,
		values:         values.New(comp.Schema(), nodeCount),
		messenger:      NewRawMessenger[int64](nodeCount, votes),
		votes:          votes,
		splitThreshold: threshold,
	}
}

func markerSchema() *schema.Schema {
	return schema.NewBuilder().
		AddLong("marker", schema.VisibilityPublic, 0).
		MustBuild()
}

func TestSplitRespectsThreshold(t *testing.T) {
	comp := Funcs[int64]{PropertySchema: markerSchema()}
	g := make(adjGraph, 10)

	step := newTestStep(t, g, comp, 3, 10)
	_, _, ok := step.split()
	require.False(t, ok)

	step.splitThreshold = 9
	left, right, ok := step.split()
	require.True(t, ok)
	require.Equal(t, 5, left.partition.NodeCount())
	require.Equal(t, 5, right.partition.NodeCount())
	require.Equal(t, uint64(0), left.partition.StartNode())
	require.Equal(t, uint64(5), right.partition.StartNode())
	require.Equal(t, 3, left.superstep)
	require.Equal(t, 3, right.superstep)
}

func TestDisjointCoverage(t *testing.T) {
	const nodeCount = 1000
	visits := make([]atomic.Int32, nodeCount)

	comp := Funcs[int64]{
		PropertySchema: markerSchema(),
		ComputeFunc: func(ctx *ComputeContext[int64], _ *Messages[int64]) error {
			visits[ctx.NodeID()].Add(1)
			return nil
		},
	}

	g := make(adjGraph, nodeCount)
	step := newTestStep(t, g, comp, 1, 7)
	require.NoError(t, step.run(context.Background()))

	for node := range visits {
		require.Equal(t, int32(1), visits[node].Load(), "node %d", node)
	}
}

func TestInitRunsOnlyAtSuperstepZero(t *testing.T) {
	var inits, computes atomic.Int32
	comp := Funcs[int64]{
		PropertySchema: markerSchema(),
		InitFunc: func(ctx *InitContext) error {
			inits.Add(1)
			return ctx.SetLongValue("marker", int64(ctx.NodeID()))
		},
		ComputeFunc: func(ctx *ComputeContext[int64], _ *Messages[int64]) error {
			computes.Add(1)
			// Init writes are visible within the same superstep.
			v, err := ctx.LongValue("marker")
			if err != nil {
				return err
			}
			if v != int64(ctx.NodeID()) {
				return fmt.Errorf("node %d read marker %d", ctx.NodeID(), v)
			}
			return nil
		},
	}

	g := make(adjGraph, 64)
	step := newTestStep(t, g, comp, 0, 8)
	require.NoError(t, step.run(context.Background()))
	require.Equal(t, int32(64), inits.Load())
	require.Equal(t, int32(64), computes.Load())

	// Same store one superstep later: init must not run again.
	step.superstep = 1
	inits.Store(0)
	require.NoError(t, step.run(context.Background()))
	require.Equal(t, int32(0), inits.Load())
}

func TestHaltedNodesAreSkipped(t *testing.T) {
	var computes atomic.Int32
	comp := Funcs[int64]{
		PropertySchema: markerSchema(),
		ComputeFunc: func(*ComputeContext[int64], *Messages[int64]) error {
			computes.Add(1)
			return nil
		},
	}

	g := make(adjGraph, 16)
	step := newTestStep(t, g, comp, 2, 4)
	for node := uint64(0); node < 16; node += 2 {
		step.votes.Vote(node)
	}

	require.NoError(t, step.run(context.Background()))
	require.Equal(t, int32(8), computes.Load())
}

func TestPendingMessageWithdrawsHaltVote(t *testing.T) {
	var computed []uint64
	comp := Funcs[int64]{
		PropertySchema: markerSchema(),
		ComputeFunc: func(ctx *ComputeContext[int64], _ *Messages[int64]) error {
			computed = append(computed, ctx.NodeID())
			return nil
		},
	}

	g := make(adjGraph, 4)
	step := newTestStep(t, g, comp, 1, 100)

	step.messenger.Send(2, 5)
	step.messenger.Swap()
	// Vote cast after the send: delivery must withdraw it, not just
	// override the skip.
	step.votes.Vote(2)
	step.votes.Vote(3)

	require.NoError(t, step.run(context.Background()))
	require.Equal(t, []uint64{0, 1, 2}, computed)
	require.False(t, step.votes.Voted(2))
	require.True(t, step.votes.Voted(3))
}

func TestComputePanicIsAnnotated(t *testing.T) {
	comp := Funcs[int64]{
		PropertySchema: markerSchema(),
		ComputeFunc: func(ctx *ComputeContext[int64], _ *Messages[int64]) error {
			if ctx.NodeID() == 7 {
				panic("boom")
			}
			return nil
		},
	}

	g := make(adjGraph, 8)
	step := newTestStep(t, g, comp, 4, 100)
	err := step.run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "node 7")
	require.Contains(t, err.Error(), "superstep 4")
	require.Contains(t, err.Error(), "boom")
}

func TestRunHonorsCancellation(t *testing.T) {
	comp := Funcs[int64]{PropertySchema: markerSchema()}
	g := make(adjGraph, 32)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	step := newTestStep(t, g, comp, 0, 8)
	require.ErrorIs(t, step.run(ctx), context.Canceled)
}

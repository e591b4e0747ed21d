package pregel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionRange(t *testing.T) {
	p := NewPartition(10, 5)

	require.Equal(t, uint64(10), p.StartNode())
	require.Equal(t, 5, p.NodeCount())

	lo, hi := p.Range()
	require.Equal(t, uint64(10), lo)
	require.Equal(t, uint64(15), hi)
}

func TestPartitionConsumeAscending(t *testing.T) {
	p := NewPartition(3, 4)

	var visited []uint64
	p.Consume(func(node uint64) {
		visited = append(visited, node)
	})
	require.Equal(t, []uint64{3, 4, 5, 6}, visited)
}

func TestPartitionConsumeEmpty(t *testing.T) {
	p := NewPartition(0, 0)

	p.Consume(func(uint64) {
		t.Fatal("callback invoked for empty partition")
	})
}

func TestHalveCoversRangeDisjointly(t *testing.T) {
	var testcases = map[string]struct {
		start uint64
		count int
	}{
		`even`:      {start: 0, count: 8},
		`odd`:       {start: 5, count: 7},
		`two_nodes`: {start: 100, count: 2},
	}

	for name, tc := range testcases {
		t.Run(name, func(t *testing.T) {
			p := NewPartition(tc.start, tc.count)
			left, right := p.halve()

			leftLo, leftHi := left.Range()
			rightLo, rightHi := right.Range()
			lo, hi := p.Range()

			require.Equal(t, lo, leftLo)
			require.Equal(t, leftHi, rightLo)
			require.Equal(t, hi, rightHi)
			require.Equal(t, tc.count, left.NodeCount()+right.NodeCount())
			require.Positive(t, left.NodeCount())
			require.Positive(t, right.NodeCount())
		})
	}
}

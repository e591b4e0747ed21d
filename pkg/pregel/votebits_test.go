package pregel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoteClearVoted(t *testing.T) {
	v := NewVoteBits(130)

	require.False(t, v.Voted(0))
	v.Vote(0)
	v.Vote(129)
	require.True(t, v.Voted(0))
	require.True(t, v.Voted(129))
	require.False(t, v.Voted(64))

	v.Clear(0)
	require.False(t, v.Voted(0))
	require.True(t, v.Voted(129))

	require.Equal(t, uint64(1), v.VotedCount())
}

func TestAllVoted(t *testing.T) {
	var testcases = map[string]struct {
		nodeCount uint64
	}{
		`empty`:         {nodeCount: 0},
		`single_word`:   {nodeCount: 17},
		`full_word`:     {nodeCount: 64},
		`partial_word`:  {nodeCount: 65},
		`several_words`: {nodeCount: 200},
	}

	for name, tc := range testcases {
		t.Run(name, func(t *testing.T) {
			v := NewVoteBits(tc.nodeCount)

			if tc.nodeCount == 0 {
				require.True(t, v.AllVoted())
				return
			}

			require.False(t, v.AllVoted())
			for node := uint64(0); node < tc.nodeCount-1; node++ {
				v.Vote(node)
			}
			require.False(t, v.AllVoted())

			v.Vote(tc.nodeCount - 1)
			require.True(t, v.AllVoted())
			require.Equal(t, tc.nodeCount, v.VotedCount())
		})
	}
}

func TestConcurrentVoting(t *testing.T) {
	const nodeCount = 10_000
	v := NewVoteBits(nodeCount)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(offset uint64) {
			defer wg.Done()
			for node := offset; node < nodeCount; node += 8 {
				v.Vote(node)
			}
		}(uint64(w))
	}
	wg.Wait()

	require.True(t, v.AllVoted())
	require.Equal(t, uint64(nodeCount), v.VotedCount())
}

package pregel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect[M any](t *testing.T, m Messenger[M], node uint64) []M {
	t.Helper()
	var it Messages[M]
	m.FillMessages(node, &it)
	var out []M
	for it.Next() {
		out = append(out, it.Message())
	}
	return out
}

func TestMessageLatencyInvariant(t *testing.T) {
	for name, newMessenger := range map[string]func(uint64, *VoteBits) Messenger[int64]{
		`raw`: NewRawMessenger[int64],
		`reducing`: func(n uint64, v *VoteBits) Messenger[int64] {
			return NewReducingMessenger[int64](n, v, Sum[int64]())
		},
	} {
		t.Run(name, func(t *testing.T) {
			votes := NewVoteBits(4)
			m := newMessenger(4, votes)

			// Sent during superstep N: not visible at N.
			m.Send(2, 5)
			require.Empty(t, collect(t, m, 2))
			require.False(t, m.HasMessages(2))
			require.Equal(t, uint64(0), m.PendingCount())

			// Visible at N+1.
			m.Swap()
			require.Equal(t, []int64{5}, collect(t, m, 2))
			require.True(t, m.HasMessages(2))
			require.Equal(t, uint64(1), m.PendingCount())
			require.Empty(t, collect(t, m, 0))
			require.False(t, m.HasMessages(0))

			// Gone again at N+2 unless resent.
			m.Swap()
			require.Empty(t, collect(t, m, 2))
			require.False(t, m.HasMessages(2))
			require.Equal(t, uint64(0), m.PendingCount())
		})
	}
}

func TestRawMessengerKeepsOrderPerDestination(t *testing.T) {
	votes := NewVoteBits(2)
	m := NewRawMessenger[int64](2, votes)

	m.Send(1, 10)
	m.Send(1, 20)
	m.Send(1, 30)
	m.Swap()

	require.Equal(t, []int64{10, 20, 30}, collect(t, m, 1))
	require.Equal(t, uint64(3), m.PendingCount())
}

func TestReducingMessengerCombines(t *testing.T) {
	votes := NewVoteBits(2)
	m := NewReducingMessenger[int64](2, votes, Sum[int64]())

	m.Send(0, 3)
	m.Send(0, 4)
	m.Swap()

	require.Equal(t, []int64{7}, collect(t, m, 0))
	// Combined deliveries count once per destination.
	require.Equal(t, uint64(1), m.PendingCount())
}

func TestReducingMessengerCommutes(t *testing.T) {
	deliver := func(a, b int64) []int64 {
		votes := NewVoteBits(1)
		m := NewReducingMessenger[int64](1, votes, Min[int64]())
		m.Send(0, a)
		m.Send(0, b)
		m.Swap()
		return collect(t, m, 0)
	}

	require.Equal(t, deliver(2, 9), deliver(9, 2))
}

func TestSendClearsHaltVote(t *testing.T) {
	for name, newMessenger := range map[string]func(uint64, *VoteBits) Messenger[int64]{
		`raw`: NewRawMessenger[int64],
		`reducing`: func(n uint64, v *VoteBits) Messenger[int64] {
			return NewReducingMessenger[int64](n, v, Sum[int64]())
		},
	} {
		t.Run(name, func(t *testing.T) {
			votes := NewVoteBits(3)
			m := newMessenger(3, votes)

			votes.Vote(1)
			votes.Vote(2)
			m.Send(1, 1)

			require.False(t, votes.Voted(1))
			require.True(t, votes.Voted(2))
		})
	}
}

func TestConcurrentSends(t *testing.T) {
	const (
		nodeCount = 64
		senders   = 16
		perSender = 500
	)

	t.Run("raw", func(t *testing.T) {
		votes := NewVoteBits(nodeCount)
		m := NewRawMessenger[int64](nodeCount, votes)

		var wg sync.WaitGroup
		for s := 0; s < senders; s++ {
			wg.Add(1)
			go func(seed int64) {
				defer wg.Done()
				for i := 0; i < perSender; i++ {
					m.Send(uint64((seed+int64(i)))%nodeCount, 1)
				}
			}(int64(s))
		}
		wg.Wait()
		m.Swap()

		var total int
		for node := uint64(0); node < nodeCount; node++ {
			total += len(collect(t, m, node))
		}
		require.Equal(t, senders*perSender, total)
		require.Equal(t, uint64(senders*perSender), m.PendingCount())
	})

	t.Run("reducing", func(t *testing.T) {
		votes := NewVoteBits(nodeCount)
		m := NewReducingMessenger[int64](nodeCount, votes, Sum[int64]())

		var wg sync.WaitGroup
		for s := 0; s < senders; s++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perSender; i++ {
					m.Send(uint64(i)%nodeCount, 1)
				}
			}()
		}
		wg.Wait()
		m.Swap()

		var total int64
		for node := uint64(0); node < nodeCount; node++ {
			for _, v := range collect(t, m, node) {
				total += v
			}
		}
		require.Equal(t, int64(senders*perSender), total)
	})
}

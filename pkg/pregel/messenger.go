package pregel

import (
	"sync"
	"sync/atomic"
)

// Messages iterates a node's incoming messages for the current superstep.
// The engine rebinds one instance across consecutive nodes within a leaf step
// to avoid per-node allocation.
type Messages[M any] struct {
	buf []M
	one [1]M
	pos int
}

// Next advances the iterator and reports whether a message is available.
func (m *Messages[M]) Next() bool {
	if m.pos < len(m.buf) {
		m.pos++
		return true
	}
	return false
}

// Message returns the message the last Next call advanced to.
func (m *Messages[M]) Message() M {
	return m.buf[m.pos-1]
}

// Count returns the total number of incoming messages.
func (m *Messages[M]) Count() int {
	return len(m.buf)
}

func (m *Messages[M]) bind(buf []M) {
	m.buf = buf
	m.pos = 0
}

// Messenger buffers messages across the superstep boundary. Sends during
// superstep N land in the "next" buffer and become visible as "current" only
// after Swap, which the executor calls exactly once per barrier. Send is safe
// for concurrent use from any worker toward any destination; Swap and
// PendingCount must only be called at the barrier.
type Messenger[M any] interface {
	// Send buffers a message for delivery at the next superstep and clears
	// the target's halt vote.
	Send(target uint64, message M)

	// FillMessages binds it to the target's current-superstep messages.
	FillMessages(target uint64, it *Messages[M])

	// HasMessages reports whether the target has messages in the "current"
	// buffer. A pending message overrides the target's halt vote even when
	// the vote was cast after the send within the producing superstep.
	HasMessages(target uint64) bool

	// Swap promotes the "next" buffer to "current" and installs a fresh
	// empty "next". The sole cross-superstep synchronization point.
	Swap()

	// PendingCount returns the number of deliveries waiting in the
	// "current" buffer.
	PendingCount() uint64
}

// NewRawMessenger returns a Messenger that keeps every message, delivering
// each node an ordered list of all values sent to it.
func NewRawMessenger[M any](nodeCount uint64, votes *VoteBits) Messenger[M] {
	return &rawMessenger[M]{
		votes: votes,
		cur:   make([]inbox[M], nodeCount),
		nxt:   make([]inbox[M], nodeCount),
	}
}

type inbox[M any] struct {
	mu   sync.Mutex
	msgs []M
}

type rawMessenger[M any] struct {
	votes *VoteBits

	cur []inbox[M]
	nxt []inbox[M]

	curCount atomic.Uint64
	nxtCount atomic.Uint64
}

func (r *rawMessenger[M]) Send(target uint64, message M) {
	in := &r.nxt[target]
	in.mu.Lock()
	in.msgs = append(in.msgs, message)
	in.mu.Unlock()

	r.nxtCount.Add(1)
	r.votes.Clear(target)
}

func (r *rawMessenger[M]) FillMessages(target uint64, it *Messages[M]) {
	// No lock: the current buffer is read-only between barriers.
	it.bind(r.cur[target].msgs)
}

func (r *rawMessenger[M]) HasMessages(target uint64) bool {
	return len(r.cur[target].msgs) > 0
}

func (r *rawMessenger[M]) Swap() {
	r.cur, r.nxt = r.nxt, r.cur
	for i := range r.nxt {
		r.nxt[i].msgs = r.nxt[i].msgs[:0]
	}
	r.curCount.Store(r.nxtCount.Load())
	r.nxtCount.Store(0)
}

func (r *rawMessenger[M]) PendingCount() uint64 {
	return r.curCount.Load()
}

// NewReducingMessenger returns a Messenger that combines all messages to the
// same destination into a single value using the supplied reducer. Memory per
// node is constant regardless of fan-in.
func NewReducingMessenger[M any](nodeCount uint64, votes *VoteBits, reducer Reducer[M]) Messenger[M] {
	m := &reducingMessenger[M]{
		votes:   votes,
		reducer: reducer,
		curVals: make([]M, nodeCount),
		nxtVals: make([]M, nodeCount),
		curHas:  make([]bool, nodeCount),
		nxtHas:  make([]bool, nodeCount),
	}
	return m
}

const reducerStripes = 256 // power of two

type reducingMessenger[M any] struct {
	votes   *VoteBits
	reducer Reducer[M]

	// stripes guard nxtVals/nxtHas cells; a destination's stripe is its id
	// modulo the stripe count.
	stripes [reducerStripes]sync.Mutex

	curVals []M
	nxtVals []M
	curHas  []bool
	nxtHas  []bool

	curCount atomic.Uint64
	nxtCount atomic.Uint64
}

func (r *reducingMessenger[M]) Send(target uint64, message M) {
	mu := &r.stripes[target&(reducerStripes-1)]
	mu.Lock()
	if r.nxtHas[target] {
		r.nxtVals[target] = r.reducer.Reduce(r.nxtVals[target], message)
	} else {
		r.nxtVals[target] = message
		r.nxtHas[target] = true
		r.nxtCount.Add(1)
	}
	mu.Unlock()

	r.votes.Clear(target)
}

func (r *reducingMessenger[M]) FillMessages(target uint64, it *Messages[M]) {
	if r.curHas[target] {
		it.one[0] = r.curVals[target]
		it.bind(it.one[:1])
		return
	}
	it.bind(nil)
}

func (r *reducingMessenger[M]) HasMessages(target uint64) bool {
	return r.curHas[target]
}

func (r *reducingMessenger[M]) Swap() {
	r.curVals, r.nxtVals = r.nxtVals, r.curVals
	r.curHas, r.nxtHas = r.nxtHas, r.curHas
	for i := range r.nxtHas {
		r.nxtHas[i] = false
	}
	r.curCount.Store(r.nxtCount.Load())
	r.nxtCount.Store(0)
}

func (r *reducingMessenger[M]) PendingCount() uint64 {
	return r.curCount.Load()
}

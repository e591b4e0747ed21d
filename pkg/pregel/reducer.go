package pregel

import "cmp"

// Reducer combines two messages addressed to the same node into one. The
// engine applies it in whatever order concurrent sends arrive, so Reduce must
// be associative and commutative for the combined result to be deterministic.
type Reducer[M any] interface {
	Reduce(a, b M) M
}

// ReduceFunc adapts a plain function to the Reducer interface.
type ReduceFunc[M any] func(a, b M) M

func (f ReduceFunc[M]) Reduce(a, b M) M {
	return f(a, b)
}

// Numeric covers the message types the canonical reducers operate on.
type Numeric interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Sum combines messages by addition.
func Sum[M Numeric]() Reducer[M] {
	return ReduceFunc[M](func(a, b M) M { return a + b })
}

// Min keeps the smallest message.
func Min[M cmp.Ordered]() Reducer[M] {
	return ReduceFunc[M](func(a, b M) M {
		if b < a {
			return b
		}
		return a
	})
}

// Max keeps the largest message.
func Max[M cmp.Ordered]() Reducer[M] {
	return ReduceFunc[M](func(a, b M) M {
		if b > a {
			return b
		}
		return a
	})
}

// Count combines messages by addition, with the convention that every sender
// sends 1. The combined value is then the number of messages received.
func Count[M Numeric]() Reducer[M] {
	return Sum[M]()
}

package pregel

import "github.com/vertigograph/vertigo/pkg/schema"

// Computation is the algorithm author contract. The engine invokes Init once
// per node at superstep 0 and Compute once per active node per superstep;
// both may run concurrently for distinct nodes and must confine their writes
// to the context they are handed.
//
// M is the message type exchanged between nodes.
type Computation[M any] interface {
	// Schema declares the per-node properties the computation maintains.
	Schema() *schema.Schema

	// Init seeds a node's property values before the first superstep.
	Init(ctx *InitContext) error

	// Compute processes a node's incoming messages and updates its state.
	Compute(ctx *ComputeContext[M], messages *Messages[M]) error
}

// MasterComputation is optionally implemented by computations that need a
// per-superstep global hook. MasterCompute runs single-threaded before the
// per-node work of each superstep and may end the run early through the
// context.
type MasterComputation interface {
	MasterCompute(ctx *MasterContext) error
}

// Funcs adapts plain functions to the Computation interface. Nil InitFunc and
// ComputeFunc are treated as no-ops, which keeps small tests and experiments
// terse.
type Funcs[M any] struct {
	PropertySchema *schema.Schema
	InitFunc       func(ctx *InitContext) error
	ComputeFunc    func(ctx *ComputeContext[M], messages *Messages[M]) error
}

func (f Funcs[M]) Schema() *schema.Schema {
	return f.PropertySchema
}

func (f Funcs[M]) Init(ctx *InitContext) error {
	if f.InitFunc == nil {
		return nil
	}
	return f.InitFunc(ctx)
}

func (f Funcs[M]) Compute(ctx *ComputeContext[M], messages *Messages[M]) error {
	if f.ComputeFunc == nil {
		return nil
	}
	return f.ComputeFunc(ctx, messages)
}

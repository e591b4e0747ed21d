// Package pagerank implements PageRank on top of the pregel engine, using
// the summing reducer so that each node receives a single combined score per
// superstep. Convergence is detected globally: every node records its score
// delta in a private property and the master hook ends the run once the
// largest delta falls below the configured tolerance.
package pagerank

import (
	"github.com/vertigograph/vertigo/pkg/pregel"
	"github.com/vertigograph/vertigo/pkg/schema"
)

// ScoreProperty is the externally readable property holding the final rank.
const ScoreProperty = "pagerank"

// deltaProperty tracks the last per-node score change, for the master hook.
const deltaProperty = "delta"

type Config struct {
	// DampingFactor is the probability of following a relationship rather
	// than teleporting. The canonical value is 0.85.
	DampingFactor float64

	// Tolerance is the maximum per-node score delta at which the run is
	// considered converged. Zero means the run uses its full superstep
	// budget.
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{DampingFactor: 0.85, Tolerance: 1e-7}
}

// Computation implements pregel.Computation[float64].
type Computation struct {
	cfg Config
}

func New(cfg Config) *Computation {
	return &Computation{cfg: cfg}
}

// Reducer returns the message reducer PageRank requires.
func (c *Computation) Reducer() pregel.Reducer[float64] {
	return pregel.Sum[float64]()
}

func (c *Computation) Schema() *schema.Schema {
	return schema.NewBuilder().
		AddDouble(ScoreProperty, schema.VisibilityPublic, 0).
		AddDouble(deltaProperty, schema.VisibilityPrivate, 1).
		MustBuild()
}

func (c *Computation) Init(ctx *pregel.InitContext) error {
	return ctx.SetDoubleValue(ScoreProperty, 1.0/float64(ctx.NodeCount()))
}

func (c *Computation) Compute(ctx *pregel.ComputeContext[float64], messages *pregel.Messages[float64]) error {
	score, err := ctx.DoubleValue(ScoreProperty)
	if err != nil {
		return err
	}

	if !ctx.IsInitialSuperstep() {
		var sum float64
		for messages.Next() {
			sum += messages.Message()
		}

		newScore := (1.0-c.cfg.DampingFactor)/float64(ctx.NodeCount()) + c.cfg.DampingFactor*sum
		delta := newScore - score
		if delta < 0 {
			delta = -delta
		}
		if err := ctx.SetDoubleValue(ScoreProperty, newScore); err != nil {
			return err
		}
		if err := ctx.SetDoubleValue(deltaProperty, delta); err != nil {
			return err
		}
		score = newScore
	}

	if degree := ctx.Degree(); degree > 0 {
		ctx.SendToNeighbors(score / float64(degree))
	}
	return nil
}

// MasterCompute ends the run once no node moved more than the tolerance in
// the previous superstep.
func (c *Computation) MasterCompute(ctx *pregel.MasterContext) error {
	if ctx.Superstep() == 0 || c.cfg.Tolerance <= 0 {
		return nil
	}

	var maxDelta float64
	for node := uint64(0); node < ctx.NodeCount(); node++ {
		delta, err := ctx.DoubleValue(deltaProperty, node)
		if err != nil {
			return err
		}
		if delta > maxDelta {
			maxDelta = delta
		}
	}

	if maxDelta <= c.cfg.Tolerance {
		ctx.SignalTermination()
	}
	return nil
}

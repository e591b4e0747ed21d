// Package sssp implements single-source shortest paths over non-negative
// relationship weights, using the minimum reducer so each node sees only the
// best candidate distance per superstep.
package sssp

import (
	"math"

	"github.com/vertigograph/vertigo/pkg/pregel"
	"github.com/vertigograph/vertigo/pkg/schema"
)

// DistanceProperty holds each node's distance from the source. Unreachable
// nodes keep +Inf.
const DistanceProperty = "distance"

type Config struct {
	// Source is the node all distances are measured from.
	Source uint64
}

// Computation implements pregel.Computation[float64].
type Computation struct {
	cfg Config
}

func New(cfg Config) *Computation {
	return &Computation{cfg: cfg}
}

// Reducer returns the message reducer SSSP requires.
func (c *Computation) Reducer() pregel.Reducer[float64] {
	return pregel.Min[float64]()
}

func (c *Computation) Schema() *schema.Schema {
	return schema.NewBuilder().
		AddDouble(DistanceProperty, schema.VisibilityPublic, 0).
		MustBuild()
}

func (c *Computation) Init(ctx *pregel.InitContext) error {
	distance := math.Inf(1)
	if ctx.NodeID() == c.cfg.Source {
		distance = 0
	}
	return ctx.SetDoubleValue(DistanceProperty, distance)
}

func (c *Computation) Compute(ctx *pregel.ComputeContext[float64], messages *pregel.Messages[float64]) error {
	distance, err := ctx.DoubleValue(DistanceProperty)
	if err != nil {
		return err
	}

	if ctx.IsInitialSuperstep() {
		if ctx.NodeID() == c.cfg.Source {
			c.relax(ctx, 0)
		}
		ctx.VoteToHalt()
		return nil
	}

	improved := false
	for messages.Next() {
		if candidate := messages.Message(); candidate < distance {
			distance = candidate
			improved = true
		}
	}

	if improved {
		if err := ctx.SetDoubleValue(DistanceProperty, distance); err != nil {
			return err
		}
		c.relax(ctx, distance)
	}
	ctx.VoteToHalt()
	return nil
}

// relax offers distance+weight to every neighbor.
func (c *Computation) relax(ctx *pregel.ComputeContext[float64], distance float64) {
	ctx.ForEachNeighbor(func(target uint64, weight float64) bool {
		ctx.SendTo(target, distance+weight)
		return true
	})
}

package pregel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/vertigograph/vertigo/pkg/logger"
	"github.com/vertigograph/vertigo/pkg/values"
)

var tracer = otel.Tracer("vertigo/pkg/pregel")

var (
	ErrInvalidMaxSupersteps = errors.New("max supersteps must be positive")
	ErrInvalidConcurrency   = errors.New("concurrency must be positive")
	ErrInvalidPartitionSize = errors.New("partition size must not be negative")
	ErrMissingSchema        = errors.New("computation declares no schema")
)

// Config carries the run parameters of a computation.
type Config struct {
	// MaxSupersteps bounds the number of supersteps; a run that has not
	// converged by then terminates with DidConverge=false.
	MaxSupersteps int

	// Concurrency is the target number of parallel workers. Only consulted
	// when PartitionSize is zero.
	Concurrency int

	// PartitionSize is the sequential split threshold: a partition with at
	// most this many nodes runs on one worker without further splitting.
	// Zero derives a threshold from Concurrency and the node count.
	PartitionSize int
}

// DefaultConfig returns the config used when callers have no specific needs.
func DefaultConfig() Config {
	return Config{
		MaxSupersteps: 50,
		Concurrency:   runtime.GOMAXPROCS(0),
	}
}

// Verify validates the config. Called by New before anything runs.
func (c Config) Verify() error {
	if c.MaxSupersteps <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSupersteps, c.MaxSupersteps)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, c.Concurrency)
	}
	if c.PartitionSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPartitionSize, c.PartitionSize)
	}
	return nil
}

// Result is the immutable outcome of a run.
type Result struct {
	// NodeValues is the read-only per-node property store.
	NodeValues *values.Snapshot

	// RanSupersteps is the number of supersteps that executed.
	RanSupersteps int

	// DidConverge is true when the run ended because every node halted and
	// no messages were pending, false when the superstep budget ran out.
	DidConverge bool
}

// Option configures a Pregel executor.
type Option[M any] func(*Pregel[M])

// WithLogger replaces the default noop logger.
func WithLogger[M any](l logger.Logger) Option[M] {
	return func(p *Pregel[M]) {
		p.logger = l
	}
}

// WithReducer switches the executor from the raw messenger, which delivers
// every message in arrival order, to the reducing messenger, which combines
// all messages per destination into one value.
func WithReducer[M any](r Reducer[M]) Option[M] {
	return func(p *Pregel[M]) {
		p.reducer = r
	}
}

// Pregel drives a computation over a graph through the superstep loop:
// run the master hook, execute the per-node work fork-join style, swap the
// message buffers, test for convergence, repeat.
type Pregel[M any] struct {
	graph       Graph
	computation Computation[M]
	config      Config
	logger      logger.Logger
	reducer     Reducer[M]
}

// New validates the configuration and prepares an executor. Configuration
// and schema errors surface here, before any superstep runs.
func New[M any](graph Graph, computation Computation[M], config Config, opts ...Option[M]) (*Pregel[M], error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	if computation.Schema() == nil || computation.Schema().Len() == 0 {
		return nil, ErrMissingSchema
	}

	p := &Pregel[M]{
		graph:       graph,
		computation: computation,
		config:      config,
		logger:      logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// splitThreshold derives the sequential split threshold for the run.
func (p *Pregel[M]) splitThreshold(nodeCount uint64) int {
	if p.config.PartitionSize > 0 {
		return p.config.PartitionSize
	}
	// Aim for a few leaves per worker so uneven leaves do not leave workers
	// idle at the tail of a superstep.
	threshold := int(nodeCount) / (p.config.Concurrency * 4)
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// Run executes the computation until convergence, the superstep budget, an
// early-termination signal from the master hook, a failure inside the
// supplied functions, or context cancellation.
func (p *Pregel[M]) Run(ctx context.Context) (*Result, error) {
	runID := ulid.Make().String()
	nodeCount := p.graph.NodeCount()

	ctx, span := tracer.Start(ctx, "pregel.Run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int64("node_count", int64(nodeCount)),
		attribute.Int("max_supersteps", p.config.MaxSupersteps),
	))
	defer span.End()

	votes := NewVoteBits(nodeCount)
	var messenger Messenger[M]
	if p.reducer != nil {
		messenger = NewReducingMessenger[M](nodeCount, votes, p.reducer)
	} else {
		messenger = NewRawMessenger[M](nodeCount, votes)
	}
	nodeValues := values.New(p.computation.Schema(), nodeCount)
	threshold := p.splitThreshold(nodeCount)

	master, hasMaster := p.computation.(MasterComputation)

	p.logger.Info("starting run",
		zap.String("run_id", runID),
		zap.Uint64("node_count", nodeCount),
		zap.Int("max_supersteps", p.config.MaxSupersteps),
		zap.Int("split_threshold", threshold),
		zap.Bool("reducing", p.reducer != nil),
	)

	start := time.Now()
	ranSupersteps := 0
	converged := false

	for superstep := 0; superstep < p.config.MaxSupersteps; superstep++ {
		if hasMaster {
			masterCtx := &MasterContext{graph: p.graph, values: nodeValues, superstep: superstep}
			if err := master.MasterCompute(masterCtx); err != nil {
				runsCounter.WithLabelValues("error").Inc()
				span.SetStatus(otelcodes.Error, err.Error())
				return nil, fmt.Errorf("master compute failed at superstep %d: %w", superstep, err)
			}
			if masterCtx.terminate {
				converged = true
				break
			}
		}

		superstepStart := time.Now()
		step := computeStep[M]{
			partition:      NewPartition(0, int(nodeCount)),
			superstep:      superstep,
			computation:    p.computation,
			graph:          p.graph,
			values:         nodeValues,
			messenger:      messenger,
			votes:          votes,
			splitThreshold: threshold,
		}
		if err := step.run(ctx); err != nil {
			runsCounter.WithLabelValues("error").Inc()
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}

		messenger.Swap()
		ranSupersteps++

		pending := messenger.PendingCount()
		halted := votes.VotedCount()
		superstepDurationMsHistogram.Observe(float64(time.Since(superstepStart).Milliseconds()))
		pendingMessagesGauge.Set(float64(pending))
		haltedNodesGauge.Set(float64(halted))
		span.AddEvent("superstep", trace.WithAttributes(
			attribute.Int("superstep", superstep),
			attribute.Int64("pending_messages", int64(pending)),
			attribute.Int64("halted_nodes", int64(halted)),
		))
		p.logger.Debug("superstep finished",
			zap.String("run_id", runID),
			zap.Int("superstep", superstep),
			zap.Uint64("pending_messages", pending),
			zap.Uint64("halted_nodes", halted),
			zap.Duration("took", time.Since(superstepStart)),
		)

		if pending == 0 && halted == nodeCount {
			converged = true
			break
		}
	}

	runSuperstepsHistogram.Observe(float64(ranSupersteps))
	if converged {
		runsCounter.WithLabelValues("converged").Inc()
	} else {
		runsCounter.WithLabelValues("max_supersteps").Inc()
	}
	span.SetAttributes(
		attribute.Int("ran_supersteps", ranSupersteps),
		attribute.Bool("did_converge", converged),
	)
	p.logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("ran_supersteps", ranSupersteps),
		zap.Bool("did_converge", converged),
		zap.Duration("took", time.Since(start)),
	)

	return &Result{
		NodeValues:    nodeValues.Snapshot(),
		RanSupersteps: ranSupersteps,
		DidConverge:   converged,
	}, nil
}

package pregel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vertigograph/vertigo/internal/build"
)

var (
	runsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "runs_total",
		Help:      "Number of completed runs, labeled by outcome.",
	}, []string{"outcome"})

	superstepDurationMsHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: build.ProjectName,
		Name:      "superstep_duration_ms",
		Help:      "Time spent executing one superstep, including the buffer swap.",
		Buckets:   []float64{1, 5, 25, 100, 500, 2500, 10000, 60000},
	})

	runSuperstepsHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: build.ProjectName,
		Name:      "run_supersteps",
		Help:      "Number of supersteps executed per run.",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500},
	})

	pendingMessagesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: build.ProjectName,
		Name:      "pending_messages",
		Help:      "Messages awaiting delivery after the most recent superstep barrier.",
	})

	haltedNodesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: build.ProjectName,
		Name:      "halted_nodes",
		Help:      "Nodes proposing to halt after the most recent superstep barrier.",
	})
)

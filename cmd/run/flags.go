package run

import (
	"github.com/spf13/cobra"

	"github.com/vertigograph/vertigo/cmd/util"
)

// bindRunFlags binds the cobra cmd flags to the equivalent config value being
// managed by viper. This bridges the config between cobra flags and viper
// flags.
func bindRunFlags(command *cobra.Command) {
	defaultConfig := DefaultConfig()
	flags := command.Flags()

	flags.String("input", defaultConfig.Input, "the edge-list file to load the graph from")
	util.MustBindPFlag("input", flags.Lookup("input"))
	util.MustBindEnv("input", "VERTIGO_INPUT")

	flags.String("algorithm", defaultConfig.Algorithm, "the algorithm to run (pagerank, sssp)")
	util.MustBindPFlag("algorithm", flags.Lookup("algorithm"))
	util.MustBindEnv("algorithm", "VERTIGO_ALGORITHM")

	flags.String("output", defaultConfig.Output, "where to write the per-node result TSV ('-' for stdout)")
	util.MustBindPFlag("output", flags.Lookup("output"))
	util.MustBindEnv("output", "VERTIGO_OUTPUT")

	flags.Int("max-supersteps", defaultConfig.MaxSupersteps, "the maximum number of supersteps before the run is cut off")
	util.MustBindPFlag("max-supersteps", flags.Lookup("max-supersteps"))
	util.MustBindEnv("max-supersteps", "VERTIGO_MAX_SUPERSTEPS")

	flags.Int("concurrency", defaultConfig.Concurrency, "the target number of parallel workers per superstep")
	util.MustBindPFlag("concurrency", flags.Lookup("concurrency"))
	util.MustBindEnv("concurrency", "VERTIGO_CONCURRENCY")

	flags.Int("partition-size", defaultConfig.PartitionSize, "the node-range size below which work runs sequentially (0 derives it from concurrency)")
	util.MustBindPFlag("partition-size", flags.Lookup("partition-size"))
	util.MustBindEnv("partition-size", "VERTIGO_PARTITION_SIZE")

	flags.String("log-format", defaultConfig.LogFormat, "the log format to output logs in ('text' or 'json')")
	util.MustBindPFlag("log-format", flags.Lookup("log-format"))
	util.MustBindEnv("log-format", "VERTIGO_LOG_FORMAT")

	flags.String("log-level", defaultConfig.LogLevel, "the log level to use ('none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal')")
	util.MustBindPFlag("log-level", flags.Lookup("log-level"))
	util.MustBindEnv("log-level", "VERTIGO_LOG_LEVEL")

	flags.Bool("metrics-enabled", defaultConfig.MetricsEnabled, "enable/disable the Prometheus metrics endpoint")
	util.MustBindPFlag("metrics-enabled", flags.Lookup("metrics-enabled"))
	util.MustBindEnv("metrics-enabled", "VERTIGO_METRICS_ENABLED")

	flags.String("metrics-addr", defaultConfig.MetricsAddr, "the host:port address to serve the metrics endpoint on")
	util.MustBindPFlag("metrics-addr", flags.Lookup("metrics-addr"))
	util.MustBindEnv("metrics-addr", "VERTIGO_METRICS_ADDR")

	flags.Bool("trace-enabled", defaultConfig.TraceEnabled, "enable/disable tracing of runs and supersteps")
	util.MustBindPFlag("trace-enabled", flags.Lookup("trace-enabled"))
	util.MustBindEnv("trace-enabled", "VERTIGO_TRACE_ENABLED")

	flags.String("trace-otlp-endpoint", defaultConfig.TraceOTLPEndpoint, "the grpc endpoint of the trace collector")
	util.MustBindPFlag("trace-otlp-endpoint", flags.Lookup("trace-otlp-endpoint"))
	util.MustBindEnv("trace-otlp-endpoint", "VERTIGO_TRACE_OTLP_ENDPOINT")

	flags.Float64("trace-sample-ratio", defaultConfig.TraceSampleRatio, "the fraction of traces to sample")
	util.MustBindPFlag("trace-sample-ratio", flags.Lookup("trace-sample-ratio"))
	util.MustBindEnv("trace-sample-ratio", "VERTIGO_TRACE_SAMPLE_RATIO")

	flags.Float64("pagerank-damping-factor", defaultConfig.PageRankDampingFactor, "the PageRank damping factor")
	util.MustBindPFlag("pagerank-damping-factor", flags.Lookup("pagerank-damping-factor"))
	util.MustBindEnv("pagerank-damping-factor", "VERTIGO_PAGERANK_DAMPING_FACTOR")

	flags.Float64("pagerank-tolerance", defaultConfig.PageRankTolerance, "the per-node score delta below which a node settles")
	util.MustBindPFlag("pagerank-tolerance", flags.Lookup("pagerank-tolerance"))
	util.MustBindEnv("pagerank-tolerance", "VERTIGO_PAGERANK_TOLERANCE")

	flags.Uint64("sssp-source", defaultConfig.SSSPSource, "the source node for single-source shortest paths")
	util.MustBindPFlag("sssp-source", flags.Lookup("sssp-source"))
	util.MustBindEnv("sssp-source", "VERTIGO_SSSP_SOURCE")
}

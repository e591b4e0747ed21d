// Package run contains the command to execute a graph algorithm.
package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vertigograph/vertigo/internal/build"
	"github.com/vertigograph/vertigo/pkg/algorithms/pagerank"
	"github.com/vertigograph/vertigo/pkg/algorithms/sssp"
	"github.com/vertigograph/vertigo/pkg/graph"
	"github.com/vertigograph/vertigo/pkg/logger"
	"github.com/vertigograph/vertigo/pkg/pregel"
	"github.com/vertigograph/vertigo/pkg/schema"
	"github.com/vertigograph/vertigo/pkg/telemetry"
)

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a graph algorithm over an edge-list file",
		Long:  "Run a graph algorithm over an edge-list file and write the resulting per-node properties as TSV.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var config Config
			if err := viper.Unmarshal(&config); err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			return runAlgorithm(cmd.Context(), config)
		},
		Args: cobra.NoArgs,
	}

	bindRunFlags(cmd)

	return cmd
}

// Config holds the run command configuration, populated from flags,
// environment variables and config.yaml through viper.
type Config struct {
	Input     string `mapstructure:"input"`
	Algorithm string `mapstructure:"algorithm"`
	Output    string `mapstructure:"output"`

	MaxSupersteps int `mapstructure:"max-supersteps"`
	Concurrency   int `mapstructure:"concurrency"`
	PartitionSize int `mapstructure:"partition-size"`

	LogFormat string `mapstructure:"log-format"`
	LogLevel  string `mapstructure:"log-level"`

	MetricsEnabled bool   `mapstructure:"metrics-enabled"`
	MetricsAddr    string `mapstructure:"metrics-addr"`

	TraceEnabled      bool    `mapstructure:"trace-enabled"`
	TraceOTLPEndpoint string  `mapstructure:"trace-otlp-endpoint"`
	TraceSampleRatio  float64 `mapstructure:"trace-sample-ratio"`

	PageRankDampingFactor float64 `mapstructure:"pagerank-damping-factor"`
	PageRankTolerance     float64 `mapstructure:"pagerank-tolerance"`
	SSSPSource            uint64  `mapstructure:"sssp-source"`
}

func DefaultConfig() Config {
	engine := pregel.DefaultConfig()
	pr := pagerank.DefaultConfig()

	return Config{
		Output:                "-",
		MaxSupersteps:         engine.MaxSupersteps,
		Concurrency:           engine.Concurrency,
		LogFormat:             "text",
		LogLevel:              "info",
		MetricsAddr:           "0.0.0.0:2112",
		TraceOTLPEndpoint:     "0.0.0.0:4317",
		TraceSampleRatio:      0.2,
		PageRankDampingFactor: pr.DampingFactor,
		PageRankTolerance:     pr.Tolerance,
	}
}

func (c Config) Verify() error {
	if c.Input == "" {
		return errors.New("an input edge-list file must be provided via --input")
	}
	switch c.Algorithm {
	case "pagerank", "sssp":
	default:
		return fmt.Errorf("unknown algorithm %q, expected one of: pagerank, sssp", c.Algorithm)
	}
	return nil
}

func runAlgorithm(ctx context.Context, config Config) error {
	if err := config.Verify(); err != nil {
		return err
	}

	log, err := logger.NewLogger(config.LogFormat, config.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.TraceEnabled {
		tp := telemetry.MustNewTracerProvider(
			telemetry.WithOTLPEndpoint(config.TraceOTLPEndpoint),
			telemetry.WithServiceName(build.ProjectName),
			telemetry.WithSamplingRatio(config.TraceSampleRatio),
		)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	if config.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: config.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			_ = srv.Close()
		}()
		log.Info("serving metrics", zap.String("addr", config.MetricsAddr))
	}

	f, err := os.Open(config.Input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	g, err := graph.LoadEdgeList(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("failed to load edge list: %w", err)
	}
	log.Info("loaded graph",
		zap.String("input", config.Input),
		zap.Uint64("node_count", g.NodeCount()),
		zap.Uint64("relationship_count", g.RelationshipCount()),
	)

	engineConfig := pregel.Config{
		MaxSupersteps: config.MaxSupersteps,
		Concurrency:   config.Concurrency,
		PartitionSize: config.PartitionSize,
	}

	var computation interface {
		pregel.Computation[float64]
		Reducer() pregel.Reducer[float64]
	}
	switch config.Algorithm {
	case "pagerank":
		computation = pagerank.New(pagerank.Config{
			DampingFactor: config.PageRankDampingFactor,
			Tolerance:     config.PageRankTolerance,
		})
	case "sssp":
		computation = sssp.New(sssp.Config{Source: config.SSSPSource})
	}

	executor, err := pregel.New[float64](g, computation, engineConfig,
		pregel.WithLogger[float64](log),
		pregel.WithReducer[float64](computation.Reducer()),
	)
	if err != nil {
		return err
	}

	result, err := executor.Run(ctx)
	if err != nil {
		return err
	}

	return writeResult(result, config.Output)
}

// writeResult dumps the public properties of every node as TSV, one node per
// row, to the configured output path ("-" for stdout).
func writeResult(result *pregel.Result, output string) error {
	out := os.Stdout
	if output != "-" && output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	properties := result.NodeValues.Properties()

	fmt.Fprint(out, "node")
	for _, el := range properties {
		fmt.Fprintf(out, "\t%s", el.Name)
	}
	fmt.Fprintln(out)

	for node := uint64(0); node < result.NodeValues.NodeCount(); node++ {
		fmt.Fprintf(out, "%d", node)
		for _, el := range properties {
			switch el.Type {
			case schema.ValueTypeLong:
				v, err := result.NodeValues.Long(el.Name, node)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\t%d", v)
			case schema.ValueTypeDouble:
				v, err := result.NodeValues.Double(el.Name, node)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\t%g", v)
			case schema.ValueTypeLongArray:
				v, err := result.NodeValues.LongArray(el.Name, node)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\t%v", v)
			case schema.ValueTypeDoubleArray:
				v, err := result.NodeValues.DoubleArray(el.Name, node)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\t%v", v)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

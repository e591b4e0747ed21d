// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand enables all children commands to read flags from CLI flags,
// environment variables prefixed with VERTIGO, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("VERTIGO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/vertigo", "$HOME/.vertigo", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	_ = viper.ReadInConfig()

	return &cobra.Command{
		Use:   "vertigo",
		Short: "A vertex-centric bulk-synchronous-parallel computation engine for graph algorithms",
		Long: `A vertex-centric bulk-synchronous-parallel computation engine for graph algorithms.

Vertigo executes algorithms expressed as per-node init and compute functions in
synchronized supersteps, with double-buffered message passing, halt votes and
fork-join parallelism over contiguous node ranges.`,
	}
}

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/vertigograph/vertigo/internal/build"
)

// NewVersionCommand returns the command to get the vertigo version.
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Return the Vertigo version",
		Long:  "Return the Vertigo version.",
		RunE:  version,
		Args:  cobra.NoArgs,
	}

	return cmd
}

// print out the built version
func version(_ *cobra.Command, _ []string) error {
	log.Printf("Vertigo Version %s Date %s commit id %s ", build.Version, build.Date, build.Commit)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *config.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show stencil version information.

Displays:
  - stencil version, commit, and build date
  - Go version
  - CUE SDK version (used for config validation)`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}

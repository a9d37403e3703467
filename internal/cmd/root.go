// Package cmd provides the stencil command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/output"
	"github.com/grimwm/stencil/internal/version"
)

// NewRootCmd creates the root command for the stencil CLI. The returned
// command owns a fresh GlobalConfig that PersistentPreRunE fills before
// any subcommand runs.
func NewRootCmd() *cobra.Command {
	cfg := &config.GlobalConfig{}
	var settings *config.Settings

	rootCmd := &cobra.Command{
		Use:   "stencil",
		Short: "Scaffold project files from templates",
		Long: `stencil renders project files (build scripts, container definitions,
documents, config) from a declarative YAML config and a set of templates.

Templates are looked up in every templates_dir, in order, and then in
the templates bundled with stencil. Each package in the config gets its
own output directory and its own template context.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			settings.Resolve(cfg)
			output.SetupLogging(output.LogConfig{
				Verbose:    cfg.Verbose,
				Timestamps: cfg.Timestamps,
			})

			info := version.Get()
			output.Debug("stencil started", "version", info.Version, "command", c.CommandPath())
			config.LogResolvedValues(cfg.Resolved)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyConfig, config.DefaultConfigFile, "path to config file (env: "+config.EnvConfig+")")
	flags.BoolP(config.KeyVerbose, "v", false, "increase output verbosity")
	flags.Bool(config.KeyTimestamps, true, "show timestamps in log output (env: "+config.EnvTimestamps+")")

	settings = config.NewSettings(flags)

	rootCmd.AddCommand(
		NewListCmd(cfg),
		NewGenCmd(cfg),
		NewCleanCmd(cfg),
		NewInstallCmd(cfg),
		NewContextCmd(cfg),
		NewVetCmd(cfg),
		NewDocCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}

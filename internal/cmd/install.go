package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/gitignore"
	"github.com/grimwm/stencil/internal/output"
)

// gitignoreFile is maintained in the working directory.
const gitignoreFile = ".gitignore"

// NewInstallCmd creates the install command.
func NewInstallCmd(cfg *config.GlobalConfig) *cobra.Command {
	var dryRun bool

	c := &cobra.Command{
		Use:   "install",
		Short: "Add generated paths to .gitignore",
		Long: `Maintain a stencil section in ./.gitignore listing every path gen
produces: template destinations, copied files, compiled documents and
the scripts directory.

The section is delimited by marker comments. An existing section is
replaced in place; otherwise it is appended. Lines outside the markers
are never changed.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInstall(c.OutOrStdout(), cfg, dryRun)
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "Print the section instead of writing it")
	return c
}

func runInstall(w io.Writer, cfg *config.GlobalConfig, dryRun bool) error {
	loaded, err := cmdutil.LoadConfig(cfg)
	if err != nil {
		return err
	}

	entries := gitignore.Entries(loaded)
	if dryRun {
		_, action, err := gitignore.Plan(gitignoreFile, entries)
		if err != nil {
			return fmt.Errorf("reading %s: %w", gitignoreFile, err)
		}
		output.Info("would update "+output.FormatNoun(gitignoreFile), "action", action, "entries", len(entries))
		fmt.Fprint(w, gitignore.Section(entries))
		return nil
	}

	action, err := gitignore.Install(gitignoreFile, entries)
	if err != nil {
		return fmt.Errorf("updating %s: %w", gitignoreFile, err)
	}
	output.Info(output.FormatCheckmark(fmt.Sprintf("%s %s", output.FormatNoun(gitignoreFile), action)), "entries", len(entries))
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/output"
)

// NewContextCmd creates the context command.
func NewContextCmd(cfg *config.GlobalConfig) *cobra.Command {
	var (
		outputFlag string
		osFlag     cmdutil.OSFlag
	)

	c := &cobra.Command{
		Use:   "context <packageId>",
		Short: "Print the template context of a package",
		Long: `Print the namespace templates of a package are rendered with: every
built-in key followed by the package's template_env entries.

Examples:
  stencil context lab1
  stencil context lab1 -o json --os windows`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			format := output.ParseOutputFormat(outputFlag)
			if format != output.FormatYAML && format != output.FormatJSON {
				return &oerrors.ExitError{
					Code: oerrors.ExitGeneralError,
					Err: fmt.Errorf("invalid output format %q (valid: %s)",
						outputFlag, strings.Join(output.ValidDataFormats(), ", ")),
				}
			}
			osKey, err := osFlag.Resolve()
			if err != nil {
				return err
			}

			loaded, err := cmdutil.LoadConfig(cfg)
			if err != nil {
				return err
			}
			ctxs, err := deriveTargets(loaded, args, false, osKey, false)
			if err != nil {
				return err
			}
			return output.WriteData(c.OutOrStdout(), format, ctxs[0].Vars())
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", "yaml",
		"Output format: "+strings.Join(output.ValidDataFormats(), ", "))
	osFlag.AddTo(c)
	return c
}

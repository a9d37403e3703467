package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/output"
)

// NewCleanCmd creates the clean command.
func NewCleanCmd(cfg *config.GlobalConfig) *cobra.Command {
	var (
		target cmdutil.TargetFlags
		osFlag cmdutil.OSFlag
	)

	c := &cobra.Command{
		Use:   "clean [packageId]",
		Short: "Remove generated package files",
		Long: `Remove the files gen produces for a package: rendered templates,
copied files and copied scripts. Directories left empty are pruned.

The package directory itself and files stencil did not generate are
never removed.

Examples:
  # Remove generated files of one package
  stencil clean lab1

  # Show what would be removed for every package
  stencil clean --all --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runClean(c.Context(), c.OutOrStdout(), args, cfg, &target, &osFlag)
		},
	}

	target.AddTo(c)
	osFlag.AddTo(c)
	return c
}

func runClean(ctx context.Context, w io.Writer, args []string, cfg *config.GlobalConfig, target *cmdutil.TargetFlags, osFlag *cmdutil.OSFlag) error {
	if err := target.Validate(args); err != nil {
		return err
	}
	osKey, err := osFlag.Resolve()
	if err != nil {
		return err
	}

	loaded, err := cmdutil.LoadConfig(cfg)
	if err != nil {
		return err
	}

	ctxs, err := deriveTargets(loaded, args, target.All, osKey, false)
	if err != nil {
		return err
	}

	gen, err := cmdutil.NewGenerator(loaded, cmdutil.GeneratorOpts{DryRun: target.DryRun, Out: w})
	if err != nil {
		return err
	}

	var errs []error
	for _, rc := range ctxs {
		log := output.PackageLogger(rc.PackageID)
		log.Info(output.StyleAction.Render("cleaning"), "dir", rc.PackageDir)

		res, err := gen.Clean(ctx, rc, target.DryRun)
		if res != nil {
			reportPackage(w, res, target.DryRun)
			if res.Failed() {
				errs = append(errs, res.Err())
			} else {
				log.Info(output.FormatCheckmark(cmdutil.PackageSummary(res)))
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Error(err.Error())
			errs = append(errs, err)
		}
	}

	return cmdutil.ExitErrorFor(errors.Join(errs...))
}

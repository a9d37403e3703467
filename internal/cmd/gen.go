package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/generate"
	"github.com/grimwm/stencil/internal/output"
	"github.com/grimwm/stencil/internal/scaffold"
	"github.com/grimwm/stencil/internal/templates"
)

// genOptions holds the flags for the gen command.
type genOptions struct {
	target  cmdutil.TargetFlags
	os      cmdutil.OSFlag
	explain bool
	json    bool
}

// NewGenCmd creates the gen command.
func NewGenCmd(cfg *config.GlobalConfig) *cobra.Command {
	opts := &genOptions{}

	c := &cobra.Command{
		Use:   "gen [packageId]",
		Short: "Generate package files from templates",
		Long: `Render every template of the config for one package, or for all of
them with --all, and copy the package's static files and scripts.

Templates whose when predicate is false are skipped. Outputs are
overwritten on every run; running gen twice produces identical files.

Examples:
  # Generate one package
  stencil gen lab1

  # Preview every package without writing
  stencil gen --all --dry-run

  # Show which template file each output comes from
  stencil gen lab1 --explain`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGen(c.Context(), c.OutOrStdout(), args, cfg, opts)
		},
	}

	opts.target.AddTo(c)
	opts.os.AddTo(c)
	c.Flags().BoolVar(&opts.explain, "explain", false,
		"Print the template plan and search-path resolution instead of generating")
	c.Flags().BoolVar(&opts.json, "json", false,
		"With --explain, print the plan as JSON")
	return c
}

func runGen(ctx context.Context, w io.Writer, args []string, cfg *config.GlobalConfig, opts *genOptions) error {
	if err := opts.target.Validate(args); err != nil {
		return err
	}
	osKey, err := opts.os.Resolve()
	if err != nil {
		return err
	}

	loaded, err := cmdutil.LoadConfig(cfg)
	if err != nil {
		return err
	}

	ctxs, err := deriveTargets(loaded, args, opts.target.All, osKey, true)
	if err != nil {
		return err
	}

	gen, err := cmdutil.NewGenerator(loaded, cmdutil.GeneratorOpts{DryRun: opts.target.DryRun, Out: w})
	if err != nil {
		return err
	}

	if opts.explain {
		return explainPlans(w, cmdutil.SearchPath(loaded), gen, ctxs, opts.json)
	}

	var errs []error
	for _, rc := range ctxs {
		log := output.PackageLogger(rc.PackageID)
		log.Info(output.StyleAction.Render("generating"), "dir", rc.PackageDir)

		res, err := gen.Generate(ctx, rc)
		if res != nil {
			reportPackage(w, res, opts.target.DryRun)
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

// reportPackage prints a package result. Dry runs were already reported
// file by file by the dry-run writer, so only errors are logged.
func reportPackage(w io.Writer, res *generate.PackageResult, dryRun bool) {
	if !dryRun {
		cmdutil.PrintPackageResult(w, res)
		return
	}
	log := output.PackageLogger(res.PackageID)
	for _, e := range res.Errors {
		log.Error(e.Error())
	}
}

// deriveTargets selects the command's packages and derives all of their
// contexts before anything is rendered. With needTemplates, every plan
// is also built so that a destination outside its package directory
// stops the run before the first package is written.
func deriveTargets(c *config.Config, args []string, all bool, osKey config.OSKey, needTemplates bool) ([]*scaffold.RenderContext, error) {
	fail := func(err error) error {
		cmdutil.PrintConfigError(c.Path, err)
		return cmdutil.ExitErrorFor(err)
	}

	if needTemplates {
		if err := c.RequireTemplates(); err != nil {
			return nil, fail(err)
		}
	}
	ids, err := cmdutil.SelectPackages(c, args, all)
	if err != nil {
		return nil, fail(err)
	}
	ctxs, err := cmdutil.DeriveContexts(c, ids, osKey)
	if err != nil {
		return nil, fail(err)
	}
	if needTemplates {
		if err := checkPlans(c, ctxs); err != nil {
			return nil, fail(err)
		}
	}
	return ctxs, nil
}

// checkPlans returns the config errors found while planning ctxs.
// Collisions are left to each package's own run.
func checkPlans(c *config.Config, ctxs []*scaffold.RenderContext) error {
	var errs []error
	for _, rc := range ctxs {
		if _, err := generate.BuildPlan(rc, c.Templates, "."); errors.Is(err, oerrors.ErrConfig) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func explainPlans(w io.Writer, sp templates.SearchPath, gen *generate.Generator, ctxs []*scaffold.RenderContext, asJSON bool) error {
	plans := make([]output.PlanInfo, 0, len(ctxs))
	var errs []error

	for _, rc := range ctxs {
		info := output.PlanInfo{PackageID: rc.PackageID, Dir: rc.PackageDir}

		plan, err := gen.Plan(rc)
		if err != nil {
			info.Err = err
			errs = append(errs, err)
			plans = append(plans, info)
			continue
		}

		for _, t := range plan.Templates {
			ti := output.TemplatePlanInfo{Src: t.Src, Dest: t.Dest}
			if m, err := sp.Resolve(t.Src); err != nil {
				ti.ResolveErr = err
				errs = append(errs, &generate.TemplateNotFoundError{PackageID: rc.PackageID, Err: err})
			} else {
				ti.Source = m.Path()
			}
			info.Templates = append(info.Templates, ti)
		}
		for _, s := range plan.Skipped {
			info.Skipped = append(info.Skipped, output.SkipInfo{Src: s.Src, Falsy: s.Falsy})
		}
		plans = append(plans, info)
	}

	if err := output.WriteVerbosePlan(sp.Names(), plans, output.VerboseOptions{JSON: asJSON, Writer: w}); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return cmdutil.ExitErrorFor(errors.Join(errs...))
}

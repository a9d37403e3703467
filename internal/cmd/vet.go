package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/generate"
	"github.com/grimwm/stencil/internal/output"
)

// NewVetCmd creates the vet command.
func NewVetCmd(cfg *config.GlobalConfig) *cobra.Command {
	var osFlag cmdutil.OSFlag

	c := &cobra.Command{
		Use:   "vet",
		Short: "Validate the config",
		Long: `Validate the config without writing anything.

Checks performed:
  1. Config file matches the schema and decodes
  2. Every package derives a template context
  3. No two rendered templates of a package share a destination
  4. Every rendered template resolves on the search path

All problems are reported, not only the first.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c.OutOrStdout(), cfg, &osFlag)
		},
	}

	osFlag.AddTo(c)
	return c
}

func runVet(w io.Writer, cfg *config.GlobalConfig, osFlag *cmdutil.OSFlag) error {
	osKey, err := osFlag.Resolve()
	if err != nil {
		return err
	}

	loaded, err := cmdutil.LoadConfig(cfg)
	if err != nil {
		return err
	}

	ctxs, err := deriveTargets(loaded, nil, true, osKey, false)
	if err != nil {
		return err
	}

	sp := cmdutil.SearchPath(loaded)
	var errs []error
	for _, rc := range ctxs {
		plan, err := generate.BuildPlan(rc, loaded.Templates, ".")
		if err != nil {
			output.PackageLogger(rc.PackageID).Error(err.Error())
			errs = append(errs, err)
			continue
		}
		for _, t := range plan.Templates {
			if _, err := sp.Resolve(t.Src); err != nil {
				err = &generate.TemplateNotFoundError{PackageID: rc.PackageID, Err: err}
				output.PackageLogger(rc.PackageID).Error(err.Error())
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return cmdutil.ExitErrorFor(err)
	}

	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("config valid: %d package(s), %d template(s)",
		len(ctxs), len(loaded.Templates))))
	return nil
}

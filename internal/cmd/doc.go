package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/document"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/features"
	"github.com/grimwm/stencil/internal/output"
)

// docOptions holds the flags for the doc command.
type docOptions struct {
	engine string
	dryRun bool
}

// NewDocCmd creates the doc command.
func NewDocCmd(cfg *config.GlobalConfig) *cobra.Command {
	opts := &docOptions{}

	c := &cobra.Command{
		Use:   "doc <packageId>",
		Short: "Compile a package's markdown documents",
		Long: `Compile every markdown doc of a package with pandoc or the built-in
HTML engine.

Feature flags select optional document sections. They come from --with,
or the WITH (then with) environment variable, as a comma-separated list.
Each feature is passed to the compiler as include-<feature>=true and
appended to the output name.

Examples:
  # handout.md -> handout.pdf
  stencil doc lab1

  # handout.md -> handout-hidden-draft.pdf
  WITH="Hidden, Draft" stencil doc lab1

  # Render HTML without pandoc
  stencil doc lab1 --engine html`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			fs := features.Parse(fmt.Sprint(config.NewSettings(c.Flags()).Features().Value))
			return runDoc(c.Context(), c.OutOrStdout(), args[0], cfg, fs, opts)
		},
	}

	c.Flags().String(config.KeyWith, "", "comma-separated feature flags (env: WITH, with)")
	c.Flags().StringVar(&opts.engine, "engine", "",
		fmt.Sprintf("document engine: %s, %s (default: from config)", document.EnginePandoc, document.EngineHTML))
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the compile jobs without running them")
	return c
}

func runDoc(ctx context.Context, w io.Writer, id string, cfg *config.GlobalConfig, fs features.FeatureSet, opts *docOptions) error {
	loaded, err := cmdutil.LoadConfig(cfg)
	if err != nil {
		return err
	}

	ctxs, err := deriveTargets(loaded, []string{id}, false, config.HostOS(), false)
	if err != nil {
		return err
	}
	rc := ctxs[0]

	compiler, err := document.New(loaded.Document, opts.engine)
	if err != nil {
		cmdutil.PrintConfigError(loaded.Path, err)
		return cmdutil.ExitErrorFor(err)
	}

	base, err := loaded.OutputBase()
	if err != nil {
		return fmt.Errorf("resolving output_dir: %w", err)
	}
	pkgDir := filepath.Join(base, filepath.FromSlash(rc.PackageDir))

	jobs := document.Jobs(pkgDir, rc.Docs, fs, compiler.Ext())
	if len(jobs) == 0 {
		return oerrors.NewNotFoundError("package has no markdown docs", id, "list .md files under docs in the package config")
	}

	log := output.PackageLogger(id)
	log.Debug("features", "with", fs.String(), "metadata", strings.Join(fs.MetadataFlags(), " "))

	if opts.dryRun {
		for _, job := range jobs {
			fmt.Fprintf(w, "%s -> %s\n", relTo(pkgDir, job.Source), relTo(pkgDir, job.Output))
			for _, m := range job.Metadata {
				fmt.Fprintf(w, "    --metadata %s\n", m)
			}
		}
		return nil
	}

	var results []document.Result
	err = output.RunWithSpinner(ctx, func(ctx context.Context) error {
		var buildErr error
		results, buildErr = document.Build(ctx, compiler, jobs)
		return buildErr
	}, output.WithTitle(fmt.Sprintf("Compiling %d document(s) for %s", len(jobs), id)))

	var errs []error
	for _, r := range results {
		rel := relTo(pkgDir, r.Job.Output)
		if r.Err != nil {
			log.Error(r.Err.Error())
			errs = append(errs, r.Err)
			fmt.Fprintln(w, output.FormatFileLine(rel, output.StatusFailed))
			continue
		}
		fmt.Fprintln(w, output.FormatFileLine(rel, output.StatusCreated))
	}
	if err != nil {
		return err
	}

	return cmdutil.ExitErrorFor(errors.Join(errs...))
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

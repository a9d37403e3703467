package cmdutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/generate"
	"github.com/grimwm/stencil/internal/output"
	"github.com/grimwm/stencil/internal/scaffold"
	"github.com/grimwm/stencil/internal/templates"
)

// LoadConfig loads the scaffold config named by the global settings.
//
// On failure it prints the error and returns an *ExitError with the
// config exit code and Printed set.
func LoadConfig(cfg *config.GlobalConfig) (*config.Config, error) {
	if cfg == nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("configuration not resolved")}
	}

	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultConfigFile
	}

	loaded, err := config.Load(path)
	if err != nil {
		PrintConfigError(path, err)
		return nil, &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}
	return loaded, nil
}

// SelectPackages returns the ids a command acts on: every package for
// --all, otherwise the ids given, each of which must exist.
func SelectPackages(c *config.Config, args []string, all bool) ([]string, error) {
	if err := c.RequirePackages(); err != nil {
		return nil, err
	}
	if all {
		return c.Packages.IDs(), nil
	}

	var errs []error
	for _, id := range args {
		if _, err := c.Package(id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return args, nil
}

// DeriveContexts derives the render context of every selected package
// before any of them is rendered. All failures are reported together.
func DeriveContexts(c *config.Config, ids []string, os config.OSKey) ([]*scaffold.RenderContext, error) {
	return scaffold.DeriveAll(c, ids, scaffold.DeriveOptions{OS: os})
}

// SearchPath builds the template search path of c: its templates_dir
// entries in order, then the bundled templates.
func SearchPath(c *config.Config) templates.SearchPath {
	return templates.NewSearchPath(c.TemplateRoots()...)
}

// GeneratorOpts controls NewGenerator.
type GeneratorOpts struct {
	// DryRun reports instead of writing, to Out.
	DryRun bool

	// Out receives dry-run reports.
	Out io.Writer
}

// NewGenerator wires a Generator for c.
func NewGenerator(c *config.Config, opts GeneratorOpts) (*generate.Generator, error) {
	base, err := c.OutputBase()
	if err != nil {
		return nil, fmt.Errorf("resolving output_dir: %w", err)
	}

	var w generate.Writer = generate.NewFileWriter()
	if opts.DryRun {
		w = generate.NewDryRunWriter(opts.Out, base, output.IsTTY())
	}

	output.Debug("generator configured",
		"output", base,
		"search-path", SearchPath(c).Names(),
		"dry-run", opts.DryRun,
	)

	return generate.New(generate.Options{
		Search:      SearchPath(c),
		Templates:   c.Templates,
		OutputBase:  base,
		FilesRoot:   c.FilesRoot(),
		ScriptsRoot: c.ScriptsRoot(),
		Writer:      w,
	}), nil
}

package generate

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/scaffold"
	"github.com/grimwm/stencil/internal/templates"
)

// ExecutableSuffix marks outputs written with mode 0755.
const ExecutableSuffix = ".sh"

// ScriptsDir is the directory, relative to the package, that
// deps_script sources are copied into.
const ScriptsDir = "scripts"

// PlannedTemplate is a template that passed its when predicate.
type PlannedTemplate struct {
	// Src is the template name on the search path.
	Src string

	// Dest is the cleaned, slash-separated path relative to the package
	// directory.
	Dest string
}

// SkippedTemplate is a template whose predicate was false.
type SkippedTemplate struct {
	Src   string
	Falsy []string
}

// Plan is what gen will do for one package, computed before any
// template is resolved or any file is written.
type Plan struct {
	PackageID string
	Dir       string
	Templates []PlannedTemplate
	Skipped   []SkippedTemplate
}

// DestFor returns the destination of a template definition relative to
// the package directory.
func DestFor(def config.TemplateDef) string {
	dest := def.Dest
	if dest == "" {
		dest = templates.DestFromSrc(def.Src)
	}
	return path.Clean(filepath.ToSlash(dest))
}

// BuildPlan evaluates each definition's predicate, derives destinations
// and checks for collisions. outBase is the output_dir.
func BuildPlan(rc *scaffold.RenderContext, defs []config.TemplateDef, outBase string) (*Plan, error) {
	plan := &Plan{
		PackageID: rc.PackageID,
		Dir:       filepath.Join(outBase, filepath.FromSlash(rc.PackageDir)),
	}

	vars := rc.Vars()
	sources := make(map[string][]string)
	var order []string

	for _, def := range defs {
		if !scaffold.ShouldRender(def.When, rc) {
			plan.Skipped = append(plan.Skipped, SkippedTemplate{
				Src:   def.Src,
				Falsy: scaffold.Falsy(def.When, vars),
			})
			continue
		}

		dest := DestFor(def)
		if !filepath.IsLocal(filepath.FromSlash(dest)) {
			return nil, &config.ConfigError{
				PackageID: rc.PackageID,
				Field:     "templates.dest",
				Message:   fmt.Sprintf("%q for %s escapes the package directory", dest, def.Src),
			}
		}

		if _, seen := sources[dest]; !seen {
			order = append(order, dest)
		}
		sources[dest] = append(sources[dest], def.Src)
		plan.Templates = append(plan.Templates, PlannedTemplate{Src: def.Src, Dest: dest})
	}

	for _, dest := range order {
		if srcs := sources[dest]; len(srcs) > 1 {
			return nil, &DestinationCollisionError{
				PackageID: rc.PackageID,
				Dest:      dest,
				Sources:   slices.Clone(srcs),
			}
		}
	}

	return plan, nil
}

// Destinations returns every planned destination relative to the
// package directory.
func (p *Plan) Destinations() []string {
	out := make([]string, len(p.Templates))
	for i, t := range p.Templates {
		out[i] = t.Dest
	}
	return out
}

// ModeFor returns the file mode for an output path.
func ModeFor(dest string) fs.FileMode {
	if strings.HasSuffix(dest, ExecutableSuffix) {
		return 0o755
	}
	return 0o644
}

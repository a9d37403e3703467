// Package generate renders a package's templates and copies its static
// files into the output directory.
//
// Packages are processed one at a time and templates in declaration
// order. Every template moves through the same steps: its when
// predicate, destination, collision check, resolution on the search
// path, rendering, and finally writing or reporting through a Writer.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/output"
	"github.com/grimwm/stencil/internal/scaffold"
	"github.com/grimwm/stencil/internal/templates"
)

// Options configures a Generator.
type Options struct {
	// Search resolves template names.
	Search templates.SearchPath

	// Templates are rendered for every package.
	Templates []config.TemplateDef

	// OutputBase is the directory package directories are created in.
	OutputBase string

	// FilesRoot holds copy_files sources.
	FilesRoot string

	// ScriptsRoot holds deps_script sources.
	ScriptsRoot string

	// Writer applies or reports outputs. Defaults to a FileWriter.
	Writer Writer
}

// Generator renders packages. It holds no per-package state.
type Generator struct {
	opts     Options
	renderer *templates.Renderer
}

// New creates a Generator.
func New(opts Options) *Generator {
	if opts.Writer == nil {
		opts.Writer = NewFileWriter()
	}
	return &Generator{
		opts:     opts,
		renderer: templates.NewRenderer(opts.Search),
	}
}

// FileResult is the outcome for one output path.
type FileResult struct {
	// Path is relative to the package directory, slash-separated.
	Path   string
	Source string
	Status string
	Err    error
}

// PackageResult collects the outcome of one package.
type PackageResult struct {
	PackageID string
	Dir       string
	Files     []FileResult
	Skipped   []SkippedTemplate
	Warnings  []string
	Errors    []error
}

// Err joins every error recorded for the package.
func (r *PackageResult) Err() error {
	return errors.Join(r.Errors...)
}

// Failed reports whether any step failed.
func (r *PackageResult) Failed() bool {
	return len(r.Errors) > 0
}

// Count returns the number of files with the given status.
func (r *PackageResult) Count(status string) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

func (r *PackageResult) record(path, source, status string, err error) {
	r.Files = append(r.Files, FileResult{Path: path, Source: source, Status: status, Err: err})
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

func (r *PackageResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Plan computes the template plan for a package without resolving or
// rendering anything.
func (g *Generator) Plan(rc *scaffold.RenderContext) (*Plan, error) {
	return BuildPlan(rc, g.opts.Templates, g.opts.OutputBase)
}

// Generate renders and writes every planned template of rc, then runs
// the copy steps. A collision or cancellation is returned as the error;
// per-template failures are recorded in the result and do not stop the
// remaining templates.
func (g *Generator) Generate(ctx context.Context, rc *scaffold.RenderContext) (*PackageResult, error) {
	plan, err := g.Plan(rc)
	if err != nil {
		return nil, err
	}

	log := output.PackageLogger(rc.PackageID)
	result := &PackageResult{PackageID: rc.PackageID, Dir: plan.Dir, Skipped: plan.Skipped}
	for _, s := range plan.Skipped {
		log.Debug("skipping template", "template", s.Src, "falsy", s.Falsy)
	}

	vars := rc.Vars()
	for _, t := range plan.Templates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		match, err := g.opts.Search.Resolve(t.Src)
		if err != nil {
			result.record(t.Dest, t.Src, output.StatusFailed, &TemplateNotFoundError{PackageID: rc.PackageID, Err: err})
			continue
		}
		log.Debug("resolved template", "template", t.Src, "path", match.Path())

		content, err := g.renderer.Render(match, vars)
		if err != nil {
			result.record(t.Dest, match.Path(), output.StatusFailed, &RenderError{PackageID: rc.PackageID, Template: t.Src, Err: err})
			continue
		}

		dest := filepath.Join(plan.Dir, filepath.FromSlash(t.Dest))
		status, err := g.opts.Writer.Write(File{
			Source:  match.Path(),
			Path:    dest,
			Content: content,
			Mode:    ModeFor(t.Dest),
		})
		if err != nil {
			result.record(t.Dest, match.Path(), status, &WriteError{PackageID: rc.PackageID, Path: dest, Err: err})
			continue
		}
		result.record(t.Dest, match.Path(), status, nil)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	g.copyScripts(rc, plan.Dir, result)
	g.copyFiles(rc, plan.Dir, result)

	return result, nil
}

// copyScripts copies every script named under any OS key, so the
// package works on each platform it lists.
func (g *Generator) copyScripts(rc *scaffold.RenderContext, dir string, result *PackageResult) {
	for _, script := range rc.DepsScripts.All() {
		rel, ok := scriptDest(script)
		if !ok {
			result.record(script, script, output.StatusFailed, &config.ConfigError{
				PackageID: rc.PackageID,
				Field:     "deps_script",
				Message:   fmt.Sprintf("script %q must name a file inside the scripts directory", script),
			})
			continue
		}
		src := filepath.Join(g.opts.ScriptsRoot, filepath.FromSlash(script))
		g.copyOne(rc.PackageID, src, rel, dir, result)
	}
}

// scriptDest returns where a deps_script entry is copied, relative to
// the package directory.
func scriptDest(script string) (string, bool) {
	rel, ok := config.SubPath(script)
	if !ok {
		return "", false
	}
	return path.Join(ScriptsDir, rel), true
}

func (g *Generator) copyFiles(rc *scaffold.RenderContext, dir string, result *PackageResult) {
	for _, cf := range rc.CopyFiles {
		rel, ok := config.SubPath(cf.Dest)
		if !ok {
			result.record(cf.Dest, cf.Src, output.StatusFailed, &config.ConfigError{
				PackageID: rc.PackageID,
				Field:     "copy_files",
				Message:   fmt.Sprintf("destination %q must name a path inside the package directory", cf.Dest),
			})
			continue
		}
		src := filepath.Join(g.opts.FilesRoot, filepath.FromSlash(cf.Src))
		g.copyOne(rc.PackageID, src, rel, dir, result)
	}
}

func (g *Generator) copyOne(id, src, rel, dir string, result *PackageResult) {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("source not found: %s", src)
			output.PackageLogger(id).Warn(msg)
			result.warn(msg)
			result.record(rel, src, output.StatusSkipped, nil)
			return
		}
		result.record(rel, src, output.StatusFailed, &WriteError{PackageID: id, Path: src, Err: err})
		return
	}

	dest := filepath.Join(dir, filepath.FromSlash(rel))
	status, err := g.opts.Writer.Copy(src, dest)
	if err != nil {
		result.record(rel, src, status, &WriteError{PackageID: id, Path: dest, Err: err})
		return
	}
	result.record(rel, src, status, nil)
}

// CleanTargets returns every path gen would create for rc, relative to
// the package directory: planned templates, copy_files destinations and
// copied scripts.
func (g *Generator) CleanTargets(rc *scaffold.RenderContext) (*Plan, []string, error) {
	plan, err := g.Plan(rc)
	if err != nil {
		return nil, nil, err
	}

	targets := plan.Destinations()
	for _, cf := range rc.CopyFiles {
		if rel, ok := config.SubPath(cf.Dest); ok {
			targets = append(targets, rel)
		}
	}
	for _, script := range rc.DepsScripts.All() {
		if rel, ok := scriptDest(script); ok {
			targets = append(targets, rel)
		}
	}

	slices.Sort(targets)
	return plan, slices.Compact(targets), nil
}

// Clean removes what Generate would produce for rc, then prunes the
// directories that held removed targets once they are empty. The
// package directory itself, files stencil did not generate and
// directories it never wrote into are kept.
func (g *Generator) Clean(ctx context.Context, rc *scaffold.RenderContext, dryRun bool) (*PackageResult, error) {
	plan, targets, err := g.CleanTargets(rc)
	if err != nil {
		return nil, err
	}

	result := &PackageResult{PackageID: rc.PackageID, Dir: plan.Dir}
	var removed []string
	for _, rel := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		target := filepath.Join(plan.Dir, filepath.FromSlash(rel))
		status, err := g.opts.Writer.Remove(target)
		if err != nil {
			result.record(rel, "", status, &WriteError{PackageID: rc.PackageID, Path: target, Err: err})
			continue
		}
		if status != output.StatusSkipped {
			result.record(rel, "", status, nil)
			removed = append(removed, rel)
		}
	}

	if !dryRun {
		if err := pruneParents(plan.Dir, removed); err != nil {
			result.Errors = append(result.Errors, &WriteError{PackageID: rc.PackageID, Path: plan.Dir, Err: err})
		}
	}
	return result, nil
}

// pruneParents removes the now-empty ancestors of each removed path,
// deepest first, stopping below root. rels are slash-separated and
// relative to root.
func pruneParents(root string, rels []string) error {
	seen := make(map[string]bool)
	var dirs []string
	for _, rel := range rels {
		for dir := path.Dir(rel); dir != "." && !seen[dir]; dir = path.Dir(dir) {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	// Deeper directories have more separators; they go first.
	slices.SortFunc(dirs, func(a, b string) int {
		return strings.Count(b, "/") - strings.Count(a, "/")
	})
	for _, dir := range dirs {
		abs := filepath.Join(root, filepath.FromSlash(dir))
		entries, err := os.ReadDir(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		if len(entries) == 0 {
			if err := os.Remove(abs); err != nil {
				return err
			}
		}
	}
	return nil
}

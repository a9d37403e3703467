// Package document compiles a package's markdown docs into output
// documents, either through an external pandoc process or the built-in
// HTML engine.
package document

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/features"
)

// Engine names accepted by document.engine and --engine.
const (
	EnginePandoc = "pandoc"
	EngineHTML   = "html"
)

// Job is one document to compile.
type Job struct {
	// Source is the markdown file.
	Source string

	// Output is the file to produce.
	Output string

	// Metadata holds key=value flags such as include-draft=true.
	Metadata []string
}

// Compiler turns a markdown source into a document. Compile is pass or
// fail; a failure is a *CompileError.
type Compiler interface {
	Compile(ctx context.Context, job Job) error

	// Ext is the output file extension without the dot.
	Ext() string
}

// CompileError reports a failed compilation.
type CompileError struct {
	Source string
	Output string
	Err    error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compiling %s: %v", e.Source, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CompileError) Unwrap() error { return e.Err }

// Is matches oerrors.ErrCompile.
func (e *CompileError) Is(target error) bool {
	return target == oerrors.ErrCompile
}

// New returns the compiler for engine, falling back to the configured
// engine when engine is empty.
func New(cfg config.DocumentConfig, engine string) (Compiler, error) {
	if engine == "" {
		engine = cfg.Engine
	}
	switch engine {
	case "", EnginePandoc:
		return NewPandoc(cfg.Pandoc, cfg.Args...), nil
	case EngineHTML:
		return NewHTML(), nil
	default:
		return nil, &config.ConfigError{
			Field:   "document.engine",
			Message: fmt.Sprintf("unknown engine %q", engine),
			Hint:    "use pandoc or html",
		}
	}
}

// IsMarkdown reports whether a doc entry is a markdown source.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// OutputName returns the output path for a markdown doc: the doc's
// stem with the feature suffix and ext, next to the source.
func OutputName(doc string, fs features.FeatureSet, ext string) string {
	doc = filepath.ToSlash(doc)
	dir, base := path.Split(doc)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return dir + fs.OutputName(stem) + "." + ext
}

// Jobs builds one job per markdown doc. Paths are resolved against
// pkgDir; non-markdown entries are skipped.
func Jobs(pkgDir string, docs []string, fs features.FeatureSet, ext string) []Job {
	var jobs []Job
	for _, doc := range docs {
		if !IsMarkdown(doc) {
			continue
		}
		jobs = append(jobs, Job{
			Source:   filepath.Join(pkgDir, filepath.FromSlash(doc)),
			Output:   filepath.Join(pkgDir, filepath.FromSlash(OutputName(doc, fs, ext))),
			Metadata: fs.MetadataFlags(),
		})
	}
	return jobs
}

// Result is the outcome of one job.
type Result struct {
	Job Job
	Err error
}

// Build compiles every job in order. A failed job does not stop the
// rest; cancellation does.
func Build(ctx context.Context, c Compiler, jobs []Job) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, Result{Job: job, Err: c.Compile(ctx, job)})
	}
	return results, nil
}

package document

import (
	"context"
	"os/exec"
)

// DefaultPandoc is the executable used when none is configured.
const DefaultPandoc = "pandoc"

// Pandoc compiles documents by running pandoc.
type Pandoc struct {
	// Path is the pandoc executable.
	Path string

	// Extra is appended to every invocation.
	Extra []string

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewPandoc returns a pandoc compiler. An empty path means pandoc on PATH.
func NewPandoc(path string, extra ...string) *Pandoc {
	if path == "" {
		path = DefaultPandoc
	}
	return &Pandoc{Path: path, Extra: extra, run: runCombined}
}

// Ext implements Compiler.
func (p *Pandoc) Ext() string { return "pdf" }

// Args returns the pandoc arguments for job.
func (p *Pandoc) Args(job Job) []string {
	args := []string{job.Source, "-o", job.Output}
	for _, m := range job.Metadata {
		args = append(args, "--metadata", m)
	}
	return append(args, p.Extra...)
}

// Compile implements Compiler. Cancelling ctx kills the process.
func (p *Pandoc) Compile(ctx context.Context, job Job) error {
	out, err := p.run(ctx, p.Path, p.Args(job)...)
	if err != nil {
		return &CompileError{Source: job.Source, Output: string(out), Err: err}
	}
	return nil
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

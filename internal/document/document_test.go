package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/features"
)

func TestOutputName(t *testing.T) {
	fs := features.Parse("Hidden, Draft")

	assert.Equal(t, "Document-hidden-draft.pdf", OutputName("Document.md", fs, "pdf"))
	assert.Equal(t, "docs/handout-hidden-draft.html", OutputName("docs/handout.md", fs, "html"))
	assert.Equal(t, "Document.pdf", OutputName("Document.md", features.Parse(""), "pdf"))
}

func TestJobs(t *testing.T) {
	fs := features.Parse("answers")
	jobs := Jobs("/out/lab", []string{"handout.md", "slides.pdf", "notes/week1.markdown"}, fs, "pdf")

	require.Len(t, jobs, 2)
	assert.Equal(t, Job{
		Source:   "/out/lab/handout.md",
		Output:   "/out/lab/handout-answers.pdf",
		Metadata: []string{"include-answers=true"},
	}, jobs[0])
	assert.Equal(t, "/out/lab/notes/week1-answers.pdf", jobs[1].Output)
}

func TestNew(t *testing.T) {
	c, err := New(config.DocumentConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, "pdf", c.Ext())
	assert.Equal(t, DefaultPandoc, c.(*Pandoc).Path)

	c, err = New(config.DocumentConfig{Engine: EnginePandoc, Pandoc: "/opt/pandoc", Args: []string{"--toc"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/pandoc", c.(*Pandoc).Path)
	assert.Equal(t, []string{"--toc"}, c.(*Pandoc).Extra)

	c, err = New(config.DocumentConfig{Engine: EnginePandoc}, EngineHTML)
	require.NoError(t, err)
	assert.Equal(t, "html", c.Ext(), "flag overrides config")

	_, err = New(config.DocumentConfig{}, "latex")
	assert.True(t, errors.Is(err, oerrors.ErrConfig))
}

func TestPandoc_Args(t *testing.T) {
	p := NewPandoc("", "--pdf-engine=xelatex")
	job := Job{Source: "a.md", Output: "a-draft.pdf", Metadata: []string{"include-draft=true", "include-hidden=true"}}

	assert.Equal(t, []string{
		"a.md", "-o", "a-draft.pdf",
		"--metadata", "include-draft=true",
		"--metadata", "include-hidden=true",
		"--pdf-engine=xelatex",
	}, p.Args(job))

	assert.Equal(t, []string{"a.md", "-o", "a.pdf"}, p.Args(Job{Source: "a.md", Output: "a.pdf"}))
}

func TestPandoc_Compile(t *testing.T) {
	p := NewPandoc("pandoc")
	var gotName string
	var gotArgs []string
	p.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, nil
	}

	require.NoError(t, p.Compile(context.Background(), Job{Source: "a.md", Output: "a.pdf"}))
	assert.Equal(t, "pandoc", gotName)
	assert.Equal(t, []string{"a.md", "-o", "a.pdf"}, gotArgs)

	p.run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Error producing PDF.\n"), errors.New("exit status 43")
	}
	err := p.Compile(context.Background(), Job{Source: "a.md", Output: "a.pdf"})
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "Error producing PDF.")
	assert.Equal(t, oerrors.ExitRenderError, oerrors.ExitCodeFromError(err))
}

func TestHTML_Compile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "handout.md")
	require.NoError(t, os.WriteFile(src, []byte("# Lab 1\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"), 0o644))

	h := NewHTML()
	job := Job{Source: src, Output: filepath.Join(dir, "out", "handout-draft.html"), Metadata: []string{"include-draft=true"}}
	require.NoError(t, h.Compile(context.Background(), job))

	page, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	got := string(page)
	assert.Contains(t, got, "<title>handout</title>")
	assert.Contains(t, got, `<meta name="include-draft" content="true">`)
	assert.Contains(t, got, "<h1>Lab 1</h1>")
	assert.Contains(t, got, "<table>", "GFM tables are enabled")
}

func TestHTML_MissingSource(t *testing.T) {
	err := NewHTML().Compile(context.Background(), Job{Source: filepath.Join(t.TempDir(), "nope.md"), Output: "x.html"})
	assert.True(t, errors.Is(err, oerrors.ErrCompile))
}

type recordingCompiler struct {
	jobs []Job
	fail string
}

func (r *recordingCompiler) Ext() string { return "pdf" }

func (r *recordingCompiler) Compile(_ context.Context, job Job) error {
	r.jobs = append(r.jobs, job)
	if job.Source == r.fail {
		return &CompileError{Source: job.Source, Err: errors.New("boom")}
	}
	return nil
}

func TestBuild(t *testing.T) {
	rc := &recordingCompiler{fail: "a.md"}
	jobs := []Job{{Source: "a.md"}, {Source: "b.md"}}

	results, err := Build(context.Background(), rc, jobs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Len(t, rc.jobs, 2, "a failure does not stop later jobs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err = Build(ctx, &recordingCompiler{}, jobs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

package document

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTML compiles markdown to a standalone HTML page with goldmark.
// Metadata flags become <meta> tags.
type HTML struct {
	md goldmark.Markdown
}

// NewHTML returns the built-in HTML engine.
func NewHTML() *HTML {
	return &HTML{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		),
	}
}

// Ext implements Compiler.
func (h *HTML) Ext() string { return "html" }

// Compile implements Compiler.
func (h *HTML) Compile(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.ReadFile(job.Source)
	if err != nil {
		return &CompileError{Source: job.Source, Err: err}
	}

	page, err := h.Render(src, titleFor(job.Source), job.Metadata)
	if err != nil {
		return &CompileError{Source: job.Source, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return &CompileError{Source: job.Source, Err: err}
	}
	if err := os.WriteFile(job.Output, page, 0o644); err != nil {
		return &CompileError{Source: job.Source, Err: err}
	}
	return nil
}

// Render converts markdown to a full HTML page.
func (h *HTML) Render(src []byte, title string, metadata []string) ([]byte, error) {
	var body bytes.Buffer
	if err := h.md.Convert(src, &body); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	for _, m := range metadata {
		key, value, _ := strings.Cut(m, "=")
		fmt.Fprintf(&page, "<meta name=\"%s\" content=\"%s\">\n", html.EscapeString(key), html.EscapeString(value))
	}
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func titleFor(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

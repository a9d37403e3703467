package templates

import (
	"bytes"
	"fmt"
	"maps"
	"text/template"
)

// maxIncludeDepth bounds nested include calls so a template that
// includes itself fails instead of recursing forever.
const maxIncludeDepth = 16

// Renderer executes templates with text/template. Missing map keys are
// errors, and include resolves partials through the same search path.
type Renderer struct {
	search SearchPath
	funcs  template.FuncMap
}

// NewRenderer creates a renderer that resolves includes through sp.
func NewRenderer(sp SearchPath) *Renderer {
	return &Renderer{search: sp, funcs: FuncMap()}
}

// Render reads and executes a resolved template.
func (r *Renderer) Render(m Match, vars map[string]any) ([]byte, error) {
	src, err := m.ReadFile()
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", m.Path(), err)
	}
	out, err := r.RenderString(m.Name, string(src), vars)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// RenderString executes template source that did not come from the
// search path. name is used in error messages.
func (r *Renderer) RenderString(name, src string, vars map[string]any) (string, error) {
	return r.execute(name, src, vars, 0)
}

func (r *Renderer) execute(name, src string, data any, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("include depth exceeded at %q", name)
	}

	funcs := maps.Clone(r.funcs)
	funcs["include"] = func(partial string, data any) (string, error) {
		m, err := r.search.Resolve(partial)
		if err != nil {
			return "", err
		}
		body, err := m.ReadFile()
		if err != nil {
			return "", fmt.Errorf("reading partial %s: %w", m.Path(), err)
		}
		return r.execute(partial, string(body), data, depth+1)
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}
